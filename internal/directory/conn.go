package directory

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Dial connects to the directory and authenticates using the configured
// method. The returned Conn is ready for operations and must be closed by
// the caller.
func Dial(cfg *ConnectionConfig) (Conn, error) {
	if cfg == nil {
		return nil, fmt.Errorf("connection config cannot be nil")
	}

	target, err := connectionURL(cfg)
	if err != nil {
		return nil, err
	}

	var opts []ldap.DialOpt
	if strings.HasPrefix(target, "ldaps://") || cfg.UseTLS {
		opts = append(opts, ldap.DialWithTLSConfig(&tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		}))
	}

	conn, err := ldap.DialURL(target, opts...)
	if err != nil {
		return nil, NewError("dial", err)
	}
	if cfg.Timeout > 0 {
		conn.SetTimeout(cfg.Timeout)
	}

	if err := authenticate(conn, cfg, target); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

// connectionURL resolves the LDAP URL to dial: the explicit URL when set,
// otherwise ldaps:// against the domain on the standard LDAPS port.
func connectionURL(cfg *ConnectionConfig) (string, error) {
	if cfg.URL != "" {
		if _, err := url.Parse(cfg.URL); err != nil {
			return "", fmt.Errorf("invalid LDAP URL %q: %w", cfg.URL, err)
		}
		return cfg.URL, nil
	}
	if cfg.Domain != "" {
		return fmt.Sprintf("ldaps://%s:636", cfg.Domain), nil
	}
	return "", fmt.Errorf("connection config requires an LDAP URL or a domain")
}

// authenticate performs the bind appropriate to the configured credentials:
// Kerberos/GSSAPI when a realm is set, simple bind otherwise.
func authenticate(conn *ldap.Conn, cfg *ConnectionConfig, target string) error {
	if cfg.KerberosRealm != "" {
		if err := kerberosBind(conn, cfg, target); err != nil {
			return NewError("gssapi_bind", err)
		}
		return nil
	}

	if cfg.Username == "" {
		return fmt.Errorf("username is required for simple bind authentication")
	}
	if err := conn.Bind(cfg.Username, cfg.Password); err != nil {
		return NewError("simple_bind", err)
	}
	return nil
}
