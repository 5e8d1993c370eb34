package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/isometry/ad-provision/internal/directory"
)

// OUResolver ensures target OUs exist before accounts are placed in them.
// It memoizes known-existing OUs so each distinct leaf costs at most one
// existence query per run; OU creation is not assumed idempotent at the
// backend, so existence is always checked before a create is attempted.
type OUResolver struct {
	backend   Backend
	baseDN    string
	known     map[string]bool
	baseKnown bool
	log       zerolog.Logger
}

// NewOUResolver creates a resolver rooted at the configured base path.
func NewOUResolver(backend Backend, baseDN string, logger zerolog.Logger) *OUResolver {
	return &OUResolver{
		backend: backend,
		baseDN:  baseDN,
		known:   make(map[string]bool),
		log:     logger,
	}
}

// Ensure guarantees the leaf OU exists under the base path, creating the
// base container (one level only) and the leaf as needed. It returns the
// leaf's distinguished path.
func (r *OUResolver) Ensure(ctx context.Context, leaf string) (string, error) {
	full := directory.BuildOUDN(leaf, r.baseDN)
	if r.known[full] {
		return full, nil
	}

	exists, err := r.backend.OUExists(ctx, full)
	if err != nil {
		return "", fmt.Errorf("OU existence check for %q: %w", leaf, err)
	}
	if exists {
		r.known[full] = true
		return full, nil
	}

	if err := r.ensureBase(ctx); err != nil {
		return "", err
	}

	if err := r.backend.CreateOU(ctx, leaf, r.baseDN); err != nil {
		return "", fmt.Errorf("create OU %q: %w", leaf, err)
	}
	r.log.Info().Str("ou", full).Msg("created organizational unit")
	r.known[full] = true
	return full, nil
}

// ensureBase checks the base container once per run and creates it when
// missing. Its own parent is assumed to exist; no deeper recursive OU
// creation is performed.
func (r *OUResolver) ensureBase(ctx context.Context) error {
	if r.baseKnown {
		return nil
	}

	exists, err := r.backend.OUExists(ctx, r.baseDN)
	if err != nil {
		return fmt.Errorf("base container existence check: %w", err)
	}
	if !exists {
		name, parent, ok := splitLeadingOU(r.baseDN)
		if !ok {
			return fmt.Errorf("base container %q does not exist and is not a creatable OU", r.baseDN)
		}
		if err := r.backend.CreateOU(ctx, name, parent); err != nil {
			return fmt.Errorf("create base container %q: %w", r.baseDN, err)
		}
		r.log.Info().Str("ou", r.baseDN).Msg("created base container")
	}
	r.baseKnown = true
	return nil
}

// splitLeadingOU splits "OU=People,DC=corp,..." into ("People",
// "DC=corp,...", true). Paths that do not start with an OU component are
// not creatable by this system.
func splitLeadingOU(dn string) (name, parent string, ok bool) {
	head, rest, found := strings.Cut(dn, ",")
	if !found {
		return "", "", false
	}
	if !strings.HasPrefix(strings.ToUpper(head), "OU=") {
		return "", "", false
	}
	return head[len("OU="):], rest, true
}
