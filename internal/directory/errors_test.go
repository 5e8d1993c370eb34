package directory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	tests := []struct {
		name             string
		code             uint16
		expectedCategory ErrorCategory
	}{
		{"Invalid credentials", ldap.LDAPResultInvalidCredentials, ErrorCategoryAuthentication},
		{"Insufficient rights", ldap.LDAPResultInsufficientAccessRights, ErrorCategoryPermission},
		{"Unwilling to perform", ldap.LDAPResultUnwillingToPerform, ErrorCategoryPermission},
		{"No such object", ldap.LDAPResultNoSuchObject, ErrorCategoryNotFound},
		{"Entry already exists", ldap.LDAPResultEntryAlreadyExists, ErrorCategoryConflict},
		{"Value already exists", ldap.LDAPResultAttributeOrValueExists, ErrorCategoryConflict},
		{"Constraint violation", ldap.LDAPResultConstraintViolation, ErrorCategoryValidation},
		{"Server down", ldap.LDAPResultServerDown, ErrorCategoryServer},
		{"Protocol error", ldap.LDAPResultProtocolError, ErrorCategoryConnection},
		{"Unmapped code", ldap.LDAPResultSortControlMissing, ErrorCategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := &ldap.Error{ResultCode: tt.code, Err: fmt.Errorf("ldap failure")}
			err := NewError("test_op", cause)

			require.NotNil(t, err)
			assert.Equal(t, tt.expectedCategory, err.Category)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, "test_op", err.Operation)
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestNewErrorNonLDAPCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError("dial", cause)

	require.NotNil(t, err)
	assert.Equal(t, ErrorCategoryUnknown, err.Category)
	assert.Zero(t, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestNewErrorNilCause(t *testing.T) {
	assert.Nil(t, NewError("noop", nil))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Operation: "create_account",
		Category:  ErrorCategoryConflict,
		Code:      ldap.LDAPResultEntryAlreadyExists,
		DN:        "CN=jdoe,DC=example,DC=com",
		Cause:     errors.New("entry already exists"),
	}

	msg := err.Error()
	assert.Contains(t, msg, "create_account")
	assert.Contains(t, msg, "code 68")
	assert.Contains(t, msg, "CN=jdoe,DC=example,DC=com")
}

func TestCategoryHelpers(t *testing.T) {
	notFound := NewError("find", &ldap.Error{ResultCode: ldap.LDAPResultNoSuchObject})
	conflict := &ldap.Error{ResultCode: ldap.LDAPResultAttributeOrValueExists}

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConflict(notFound))

	// Raw LDAP errors categorize without wrapping.
	assert.True(t, IsConflict(conflict))

	// Wrapped errors unwrap through fmt.
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", notFound)))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(errors.New("plain")))
}
