package reconcile

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/isometry/ad-provision/internal/directory"
)

// MockBackend implements the Backend interface for testing.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) OUExists(ctx context.Context, dn string) (bool, error) {
	args := m.Called(ctx, dn)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) CreateOU(ctx context.Context, name, parentDN string) error {
	args := m.Called(ctx, name, parentDN)
	return args.Error(0)
}

func (m *MockBackend) FindAccount(ctx context.Context, samAccountName string) (*directory.Account, error) {
	args := m.Called(ctx, samAccountName)
	if account := args.Get(0); account != nil {
		if acc, ok := account.(*directory.Account); ok {
			return acc, args.Error(1)
		}
	}
	return nil, args.Error(1)
}

func (m *MockBackend) DeleteAccount(ctx context.Context, dn string) error {
	args := m.Called(ctx, dn)
	return args.Error(0)
}

func (m *MockBackend) CreateAccount(ctx context.Context, req *directory.CreateAccountRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBackend) SetPasswordNeverExpires(ctx context.Context, dn string) error {
	args := m.Called(ctx, dn)
	return args.Error(0)
}

func (m *MockBackend) AddGroupMember(ctx context.Context, groupName, accountDN string) error {
	args := m.Called(ctx, groupName, accountDN)
	return args.Error(0)
}
