// Package reconcile contains the batch reconciliation engine: it turns a
// stream of raw input records into a deterministic sequence of idempotent
// directory operations, isolates per-record failures and reports an
// accurate run summary.
package reconcile

import (
	"errors"
	"strings"
	"unicode"
)

// FieldCount is the number of positional fields in one input record:
// account name, given name, surname, mail, department, OU leaf, groups.
const FieldCount = 7

// Rejection reasons for records that never reach the backend.
var (
	ErrMissingAccountName = errors.New("missing SamAccountName")
	ErrMissingOU          = errors.New("missing folder/OU")
)

// CredentialTier selects which configured password an account receives.
type CredentialTier int

const (
	TierStandard CredentialTier = iota
	TierElevated
)

func (t CredentialTier) String() string {
	if t == TierElevated {
		return "elevated"
	}
	return "standard"
}

// UserDirective is the normalized, validated representation of one input
// record, ready for reconciliation.
type UserDirective struct {
	SAMAccountName string
	GivenName      string
	Surname        string
	Mail           string
	Department     string // blank means no department attribute
	OUComponent    string
	MemberOf       []string
	Tier           CredentialTier
}

// NormalizeRecord cleans one positional record into a UserDirective.
// Missing trailing fields are treated as blank. A record without an
// account name or OU component is rejected; rejection is non-fatal to the
// run and converts into a skipped outcome for the record.
func NormalizeRecord(fields []string, defaultMail string) (*UserDirective, error) {
	get := func(i int) string {
		if i < len(fields) {
			return clean(fields[i])
		}
		return ""
	}

	d := &UserDirective{
		GivenName:   get(1),
		Surname:     get(2),
		Department:  get(4),
		OUComponent: stripNonPrintable(get(5)),
	}

	d.SAMAccountName = sanitizeAccountName(get(0))
	if d.SAMAccountName == "" {
		return nil, ErrMissingAccountName
	}
	if d.OUComponent == "" {
		return nil, ErrMissingOU
	}

	d.Mail = get(3)
	if d.Mail == "" {
		d.Mail = defaultMail
	}

	if d.Surname == "" {
		d.GivenName, d.Surname = deriveSurname(d.GivenName)
	}

	d.MemberOf = splitGroups(get(6))

	return d, nil
}

// clean trims surrounding whitespace and quoting from a raw field.
func clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// sanitizeAccountName reduces a raw account name to the identifier-safe
// charset [A-Za-z0-9._-] and strips a leading underscore.
func sanitizeAccountName(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.TrimPrefix(b.String(), "_")
}

// stripNonPrintable removes control and other non-printable runes.
func stripNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s)
}

// deriveSurname fills a blank surname from a dotted given name: the
// segment after the last dot becomes the surname and is removed from the
// given name. Without a dot the surname falls back to "Unknown".
func deriveSurname(givenName string) (given, surname string) {
	if idx := strings.LastIndex(givenName, "."); idx >= 0 {
		given = givenName[:idx]
		surname = givenName[idx+1:]
	} else {
		given = givenName
	}
	if surname == "" {
		surname = "Unknown"
	}
	return given, surname
}

// splitGroups splits the semicolon-separated membership list, dropping
// blank and sentinel "0" entries so they never reach the backend.
func splitGroups(s string) []string {
	if s == "" {
		return nil
	}
	var groups []string
	for _, name := range strings.Split(s, ";") {
		name = clean(name)
		if name == "" || name == "0" {
			continue
		}
		groups = append(groups, name)
	}
	return groups
}
