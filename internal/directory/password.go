package directory

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// EncodePassword converts a plaintext password into the value Active
// Directory expects for the unicodePwd attribute: the password surrounded
// by double quotes, encoded as UTF-16 little-endian without a BOM.
func EncodePassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, err := enc.String(`"` + password + `"`)
	if err != nil {
		return "", fmt.Errorf("failed to encode password: %w", err)
	}
	return encoded, nil
}
