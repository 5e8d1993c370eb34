package reconcile

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// GroupSynchronizer applies a directive's desired group set to a freshly
// created account. Each group is attempted independently; one group's
// failure never blocks the rest.
type GroupSynchronizer struct {
	backend Backend
	log     zerolog.Logger
}

// NewGroupSynchronizer creates a synchronizer over the backend.
func NewGroupSynchronizer(backend Backend, logger zerolog.Logger) *GroupSynchronizer {
	return &GroupSynchronizer{backend: backend, log: logger}
}

// Sync adds the account to every requested group and reports how many
// adds succeeded and how many failed. Blank and sentinel entries are
// skipped without touching the backend.
func (gs *GroupSynchronizer) Sync(ctx context.Context, accountDN string, groups []string) (added, failed int) {
	for _, name := range groups {
		name = strings.TrimSpace(name)
		if name == "" || name == "0" {
			continue
		}

		if err := gs.backend.AddGroupMember(ctx, name, accountDN); err != nil {
			gs.log.Warn().Err(err).Str("group", name).Str("account", accountDN).Msg("group add failed")
			failed++
			continue
		}
		added++
	}
	return added, failed
}
