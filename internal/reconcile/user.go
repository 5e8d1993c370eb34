package reconcile

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/isometry/ad-provision/internal/directory"
)

// UserReconciler converts a directive plus current backend state into a
// create-or-replace plan and executes it. It deliberately favours
// delete-then-recreate over in-place update: the created entry converges
// to exactly the directive's attribute set without a diff/merge step, at
// the cost of transient account unavailability.
type UserReconciler struct {
	backend  Backend
	settings Settings
	groups   *GroupSynchronizer
	log      zerolog.Logger
}

// NewUserReconciler creates a reconciler with the run's provisioning
// settings.
func NewUserReconciler(backend Backend, settings Settings, logger zerolog.Logger) *UserReconciler {
	return &UserReconciler{
		backend:  backend,
		settings: settings,
		groups:   NewGroupSynchronizer(backend, logger),
		log:      logger,
	}
}

// Reconcile drives one directive to its terminal outcome. parentDN is the
// already-ensured OU the account is placed in.
func (ur *UserReconciler) Reconcile(ctx context.Context, d *UserDirective, parentDN string) Outcome {
	existing, err := ur.backend.FindAccount(ctx, d.SAMAccountName)
	if err != nil {
		return Outcome{Account: d.SAMAccountName, Class: ClassError, Reason: ReasonLookupFailed, Detail: err.Error()}
	}

	if existing != nil {
		if !ur.settings.DeleteExisting {
			ur.log.Info().Str("account", d.SAMAccountName).Msg("account exists and deletion is disabled, skipping")
			return Outcome{Account: d.SAMAccountName, Class: ClassSkipped, Reason: ReasonExistingKept}
		}

		ur.log.Info().Str("account", d.SAMAccountName).Str("sid", existing.SID).Msg("deleting existing account")
		if err := ur.backend.DeleteAccount(ctx, existing.DN); err != nil {
			return Outcome{Account: d.SAMAccountName, Class: ClassError, Reason: ReasonDeleteFailed, Detail: err.Error()}
		}
	}

	req := ur.createRequest(d, parentDN)
	if err := ur.backend.CreateAccount(ctx, req); err != nil {
		return Outcome{Account: d.SAMAccountName, Class: ClassError, Reason: ReasonCreateFailed, Detail: err.Error()}
	}
	ur.log.Info().Str("account", d.SAMAccountName).Str("ou", parentDN).Str("tier", d.Tier.String()).Msg("created account")

	// Best effort: a failure here is logged but never changes the outcome.
	accountDN := directory.AccountDN(d.SAMAccountName, parentDN)
	if err := ur.backend.SetPasswordNeverExpires(ctx, accountDN); err != nil {
		ur.log.Warn().Err(err).Str("account", d.SAMAccountName).Msg("could not set password to non-expiring")
	}

	added, failed := ur.groups.Sync(ctx, accountDN, d.MemberOf)
	if failed > 0 {
		return Outcome{
			Account:      d.SAMAccountName,
			Class:        ClassError,
			Reason:       ReasonGroupAddFailures,
			GroupsAdded:  added,
			GroupsFailed: failed,
		}
	}

	return Outcome{Account: d.SAMAccountName, Class: ClassProcessed, GroupsAdded: added}
}

// createRequest maps a directive onto the backend's create parameters,
// applying the home directory template and the tier's password.
func (ur *UserReconciler) createRequest(d *UserDirective, parentDN string) *directory.CreateAccountRequest {
	password := ur.settings.StandardPassword
	if d.Tier == TierElevated {
		password = ur.settings.ElevatedPassword
	}

	var home string
	if ur.settings.HomeDirectoryTemplate != "" {
		home = strings.ReplaceAll(ur.settings.HomeDirectoryTemplate, "{username}", d.SAMAccountName)
	}

	var upn string
	if ur.settings.UPNSuffix != "" {
		upn = d.SAMAccountName + "@" + ur.settings.UPNSuffix
	}

	return &directory.CreateAccountRequest{
		SAMAccountName: d.SAMAccountName,
		GivenName:      d.GivenName,
		Surname:        d.Surname,
		Mail:           d.Mail,
		Department:     d.Department,
		HomeDirectory:  home,
		UPN:            upn,
		ParentDN:       parentDN,
		Password:       password,
	}
}
