// Package directory implements the typed directory-service backend the
// reconciliation engine consumes: existence queries and create/delete/modify
// primitives for organizational units, user accounts and group membership,
// expressed over LDAP.
package directory

import (
	"time"

	"github.com/go-ldap/ldap/v3"
)

// ConnectionConfig holds connection and authentication settings for a
// directory connection.
type ConnectionConfig struct {
	// Connection settings. URL takes precedence; when empty, an ldaps://
	// URL is derived from Domain.
	URL    string
	Domain string
	BaseDN string

	// Simple bind credentials.
	Username string
	Password string

	// Kerberos settings. A non-empty realm selects GSSAPI authentication.
	KerberosRealm  string
	KerberosKeytab string
	KerberosCCache string
	KerberosConfig string
	KerberosSPN    string

	// TLS settings. Password operations against Active Directory require a
	// protected connection, so UseTLS should stay enabled.
	UseTLS             bool
	InsecureSkipVerify bool

	Timeout time.Duration
}

// Conn is the minimal LDAP transport the service layer operates on.
// *ldap.Conn satisfies it; tests substitute a mock.
type Conn interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	SearchWithPaging(req *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error)
	Add(req *ldap.AddRequest) error
	Modify(req *ldap.ModifyRequest) error
	Del(req *ldap.DelRequest) error
	Close() error
}

// Account is the directory's view of a user account, limited to the
// attributes this system manages.
type Account struct {
	DN             string
	SAMAccountName string
	GivenName      string
	Surname        string
	Mail           string
	Department     string
	MemberOf       []string // group DNs as stored on the entry
	SID            string   // decoded objectSid, informational
}

// CreateAccountRequest carries everything needed to create one user account.
type CreateAccountRequest struct {
	SAMAccountName string
	GivenName      string
	Surname        string
	Mail           string
	Department     string // omitted from the entry when blank
	HomeDirectory  string // omitted from the entry when blank
	UPN            string // omitted from the entry when blank
	ParentDN       string // OU the account is placed in
	Password       string
}

// userAccountControl flags, from the Microsoft attribute documentation.
// Only the flags this system manipulates are listed.
const (
	uacAccountDisabled      int64 = 0x0002
	uacNormalAccount        int64 = 0x0200
	uacPasswordNeverExpires int64 = 0x10000
)
