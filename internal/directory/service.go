package directory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog"
)

// Service is the operation layer over a directory connection. All methods
// are blocking round-trips with a structured success-or-failure result; the
// caller decides how failures affect the wider run.
type Service struct {
	conn    Conn
	baseDN  string
	log     zerolog.Logger
	timeout time.Duration
}

// NewService creates a service over an established connection. Searches by
// name (accounts, groups) run under baseDN.
func NewService(conn Conn, baseDN string, logger zerolog.Logger) *Service {
	return &Service{
		conn:    conn,
		baseDN:  baseDN,
		log:     logger,
		timeout: 30 * time.Second,
	}
}

// SetTimeout sets the per-search time limit.
func (s *Service) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}

// Close releases the underlying connection.
func (s *Service) Close() error {
	return s.conn.Close()
}

// BuildOUDN constructs the distinguished path of an OU under a parent
// container.
func BuildOUDN(name, parentDN string) string {
	return fmt.Sprintf("OU=%s,%s", ldap.EscapeDN(name), parentDN)
}

// AccountDN constructs the distinguished path of a user entry under its OU.
func AccountDN(name, parentDN string) string {
	return fmt.Sprintf("CN=%s,%s", ldap.EscapeDN(name), parentDN)
}

// OUExists reports whether an organizational unit exists at the given
// distinguished path. A missing base object is existence information, not
// an error.
func (s *Service) OUExists(ctx context.Context, dn string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	req := ldap.NewSearchRequest(
		dn,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1, int(s.timeout.Seconds()), false,
		"(objectClass=organizationalUnit)",
		[]string{"ou"},
		nil,
	)

	result, err := s.conn.Search(req)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, NewError("ou_exists", err)
	}
	return len(result.Entries) > 0, nil
}

// CreateOU creates an organizational unit under the given parent. The
// parent itself must already exist; creation is not assumed idempotent, so
// callers check existence first.
func (s *Service) CreateOU(ctx context.Context, name, parentDN string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("OU name is required")
	}
	if strings.ContainsAny(name, "\"\\/#+,;<=>\r\n") {
		return fmt.Errorf("OU name contains invalid characters: %s", name)
	}

	dn := BuildOUDN(name, parentDN)
	req := ldap.NewAddRequest(dn, nil)
	req.Attribute("objectClass", []string{"top", "organizationalUnit"})
	req.Attribute("ou", []string{name})

	if err := s.conn.Add(req); err != nil {
		return NewError("create_ou", err)
	}
	s.log.Debug().Str("dn", dn).Msg("created organizational unit")
	return nil
}

// FindAccount looks up a user account by sAMAccountName. It returns nil
// without error when no such account exists.
func (s *Service) FindAccount(ctx context.Context, samAccountName string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if samAccountName == "" {
		return nil, fmt.Errorf("SAM account name cannot be empty")
	}

	req := ldap.NewSearchRequest(
		s.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1, int(s.timeout.Seconds()), false,
		fmt.Sprintf("(&(objectClass=user)(!(objectClass=computer))(sAMAccountName=%s))", ldap.EscapeFilter(samAccountName)),
		accountAttributes(),
		nil,
	)

	result, err := s.conn.Search(req)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, NewError("find_account", err)
	}
	if len(result.Entries) == 0 {
		return nil, nil
	}
	return entryToAccount(result.Entries[0]), nil
}

// DeleteAccount removes a user entry by distinguished path.
func (s *Service) DeleteAccount(ctx context.Context, dn string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dn == "" {
		return fmt.Errorf("account DN cannot be empty")
	}

	if err := s.conn.Del(ldap.NewDelRequest(dn, nil)); err != nil {
		return NewError("delete_account", err)
	}
	return nil
}

// CreateAccount creates a user entry with the requested attributes, sets
// its password and enables it. The entry is added disabled first because
// Active Directory rejects enabled accounts without a password.
func (s *Service) CreateAccount(ctx context.Context, req *CreateAccountRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("create account request cannot be nil")
	}
	if req.SAMAccountName == "" || req.ParentDN == "" {
		return fmt.Errorf("account name and parent DN are required")
	}

	dn := AccountDN(req.SAMAccountName, req.ParentDN)

	add := ldap.NewAddRequest(dn, nil)
	add.Attribute("objectClass", []string{"top", "person", "organizationalPerson", "user"})
	add.Attribute("sAMAccountName", []string{req.SAMAccountName})
	add.Attribute("givenName", []string{req.GivenName})
	add.Attribute("sn", []string{req.Surname})
	add.Attribute("displayName", []string{strings.TrimSpace(req.GivenName + " " + req.Surname)})
	add.Attribute("userAccountControl", []string{strconv.FormatInt(uacNormalAccount|uacAccountDisabled, 10)})
	if req.Mail != "" {
		add.Attribute("mail", []string{req.Mail})
	}
	if req.HomeDirectory != "" {
		add.Attribute("homeDirectory", []string{req.HomeDirectory})
	}
	if req.UPN != "" {
		add.Attribute("userPrincipalName", []string{req.UPN})
	}
	// Blank department means "no department attribute", never an empty value.
	if req.Department != "" {
		add.Attribute("department", []string{req.Department})
	}

	if err := s.conn.Add(add); err != nil {
		return NewError("create_account", err)
	}

	if err := s.setPassword(dn, req.Password); err != nil {
		return err
	}

	enable := ldap.NewModifyRequest(dn, nil)
	enable.Replace("userAccountControl", []string{strconv.FormatInt(uacNormalAccount, 10)})
	if err := s.conn.Modify(enable); err != nil {
		return NewError("enable_account", err)
	}

	s.log.Debug().Str("dn", dn).Msg("created user account")
	return nil
}

// setPassword replaces the unicodePwd attribute. Requires a protected
// (TLS) connection against Active Directory.
func (s *Service) setPassword(dn, password string) error {
	encoded, err := EncodePassword(password)
	if err != nil {
		return NewError("set_password", err)
	}

	mod := ldap.NewModifyRequest(dn, nil)
	mod.Replace("unicodePwd", []string{encoded})
	if err := s.conn.Modify(mod); err != nil {
		return NewError("set_password", err)
	}
	return nil
}

// SetPasswordNeverExpires marks the account's password as non-expiring
// while keeping it enabled.
func (s *Service) SetPasswordNeverExpires(ctx context.Context, dn string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mod := ldap.NewModifyRequest(dn, nil)
	mod.Replace("userAccountControl", []string{strconv.FormatInt(uacNormalAccount|uacPasswordNeverExpires, 10)})
	if err := s.conn.Modify(mod); err != nil {
		return NewError("set_password_never_expires", err)
	}
	return nil
}

// AddGroupMember adds an account to a group identified by name. Adding a
// member that is already present counts as success, so the operation is
// idempotent from the caller's perspective.
func (s *Service) AddGroupMember(ctx context.Context, groupName, accountDN string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if groupName == "" || accountDN == "" {
		return fmt.Errorf("group name and account DN are required")
	}

	groupDN, err := s.findGroupDN(groupName)
	if err != nil {
		return err
	}

	mod := ldap.NewModifyRequest(groupDN, nil)
	mod.Add("member", []string{accountDN})
	if err := s.conn.Modify(mod); err != nil {
		if IsConflict(err) {
			// Member already present; the desired state holds.
			return nil
		}
		return NewError("add_group_member", err)
	}
	return nil
}

// findGroupDN resolves a group's distinguished path from its common name
// or SAM account name.
func (s *Service) findGroupDN(name string) (string, error) {
	escaped := ldap.EscapeFilter(name)
	req := ldap.NewSearchRequest(
		s.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		1, int(s.timeout.Seconds()), false,
		fmt.Sprintf("(&(objectClass=group)(|(cn=%s)(sAMAccountName=%s)))", escaped, escaped),
		[]string{"distinguishedName"},
		nil,
	)

	result, err := s.conn.Search(req)
	if err != nil {
		return "", NewError("find_group", err)
	}
	if len(result.Entries) == 0 {
		return "", NewError("find_group", fmt.Errorf("group %q not found", name))
	}
	return result.Entries[0].DN, nil
}

// ListAccounts returns all user accounts under a container, for export.
func (s *Service) ListAccounts(ctx context.Context, baseDN string) ([]Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, int(s.timeout.Seconds()), false,
		"(&(objectClass=user)(!(objectClass=computer)))",
		accountAttributes(),
		nil,
	)

	result, err := s.conn.SearchWithPaging(req, 1000)
	if err != nil {
		return nil, NewError("list_accounts", err)
	}

	accounts := make([]Account, 0, len(result.Entries))
	for _, entry := range result.Entries {
		accounts = append(accounts, *entryToAccount(entry))
	}
	return accounts, nil
}

// accountAttributes lists the user attributes this system reads.
func accountAttributes() []string {
	return []string{
		"distinguishedName", "sAMAccountName", "givenName", "sn",
		"mail", "department", "memberOf", "objectSid",
	}
}

// entryToAccount converts an LDAP entry to an Account.
func entryToAccount(entry *ldap.Entry) *Account {
	return &Account{
		DN:             entry.DN,
		SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
		GivenName:      entry.GetAttributeValue("givenName"),
		Surname:        entry.GetAttributeValue("sn"),
		Mail:           entry.GetAttributeValue("mail"),
		Department:     entry.GetAttributeValue("department"),
		MemberOf:       entry.GetAttributeValues("memberOf"),
		SID:            extractSID(entry),
	}
}
