package directory

import (
	"github.com/bwmarrin/go-objectsid"
	"github.com/go-ldap/ldap/v3"
)

// extractSID decodes the binary objectSid of an entry into its S-1-5-...
// string form, returning "" when the attribute is absent or malformed.
// Active Directory stores SIDs as binary data.
func extractSID(entry *ldap.Entry) string {
	raw := entry.GetRawAttributeValue("objectSid")
	if len(raw) < 8 {
		return ""
	}
	return objectsid.Decode(raw).String()
}
