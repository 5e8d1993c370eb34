package reconcile

import (
	"context"

	"github.com/isometry/ad-provision/internal/directory"
)

// Backend is the directory capability set the engine consumes. Every call
// is a blocking round-trip with a structured success-or-failure result;
// the engine never retries a failed call within a run.
// *directory.Service satisfies it.
type Backend interface {
	OUExists(ctx context.Context, dn string) (bool, error)
	CreateOU(ctx context.Context, name, parentDN string) error
	FindAccount(ctx context.Context, samAccountName string) (*directory.Account, error)
	DeleteAccount(ctx context.Context, dn string) error
	CreateAccount(ctx context.Context, req *directory.CreateAccountRequest) error
	SetPasswordNeverExpires(ctx context.Context, dn string) error
	AddGroupMember(ctx context.Context, groupName, accountDN string) error
}
