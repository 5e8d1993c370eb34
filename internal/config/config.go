// Package config loads and validates the TOML configuration for the
// provisioning tools. Defaults are applied before the file is parsed, so
// absent keys fall back to sensible values.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/creasty/defaults"
)

// Config is the top-level configuration, resolved once before a run starts
// and passed by value into the components that need it.
type Config struct {
	Directory DirectoryConfig `toml:"directory"`
	Provision ProvisionConfig `toml:"provision"`
}

// DirectoryConfig holds connection and authentication settings for the
// directory service backend.
type DirectoryConfig struct {
	// Connection settings. URL takes precedence over Domain; when only
	// Domain is set, an ldaps:// URL is derived from it.
	URL    string `toml:"ldap_url"`
	Domain string `toml:"domain"`
	BaseDN string `toml:"base_dn"`

	// Simple bind credentials.
	Username string `toml:"username"`
	Password string `toml:"password"`

	// Kerberos settings. A non-empty realm selects GSSAPI authentication.
	KerberosRealm  string `toml:"kerberos_realm"`
	KerberosKeytab string `toml:"kerberos_keytab"`
	KerberosCCache string `toml:"kerberos_ccache"`
	KerberosConfig string `toml:"kerberos_config"`
	KerberosSPN    string `toml:"kerberos_spn"`

	// TLS settings.
	UseTLS             bool `toml:"use_tls" default:"true"`
	InsecureSkipVerify bool `toml:"insecure_skip_verify"`

	TimeoutSeconds int `toml:"timeout_seconds" default:"30"`
}

// ProvisionConfig holds the provisioning policy: where accounts are placed,
// which attribute defaults apply, and how credential tiers map to passwords.
type ProvisionConfig struct {
	// BaseOU is the container under BaseDN that holds all provisioned OUs,
	// e.g. "OU=People". Leave empty to place leaf OUs directly under BaseDN.
	BaseOU string `toml:"base_ou" default:"OU=People"`

	DefaultMail           string `toml:"default_mail"`
	StandardPassword      string `toml:"standard_password"`
	ElevatedPassword      string `toml:"elevated_password"`
	HomeDirectoryTemplate string `toml:"home_directory_template"`
	UPNSuffix             string `toml:"upn_suffix"`

	// DeleteExisting controls whether pre-existing accounts are deleted and
	// recreated. When false, records for existing accounts are skipped.
	DeleteExisting bool `toml:"delete_existing"`

	// ElevatedGroups lists group names whose membership selects the
	// elevated credential tier. Matching is exact and case-sensitive.
	ElevatedGroups []string `toml:"elevated_groups" default:"[\"Domain Admins\",\"Administrators\"]"`
}

// Load reads, defaults, parses and validates a configuration file.
func Load(path string) (Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return Config{}, fmt.Errorf("config defaults failed: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete enough to run against
// a real directory.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Directory.URL) == "" && strings.TrimSpace(c.Directory.Domain) == "" {
		return fmt.Errorf("directory config requires ldap_url or domain")
	}
	if strings.TrimSpace(c.Directory.BaseDN) == "" {
		return fmt.Errorf("directory config missing base_dn")
	}
	if c.Directory.KerberosRealm == "" && c.Directory.Username == "" {
		return fmt.Errorf("directory config requires username or kerberos_realm")
	}
	if c.Directory.TimeoutSeconds <= 0 {
		return fmt.Errorf("directory timeout_seconds must be positive")
	}
	if strings.TrimSpace(c.Provision.StandardPassword) == "" {
		return fmt.Errorf("provision config missing standard_password")
	}
	if strings.TrimSpace(c.Provision.ElevatedPassword) == "" {
		return fmt.Errorf("provision config missing elevated_password")
	}
	return nil
}

// Timeout returns the directory operation timeout as a duration.
func (c DirectoryConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ProvisionBaseDN returns the distinguished path under which leaf OUs are
// created: base_ou prepended to base_dn, or base_dn alone when base_ou is
// empty.
func (c Config) ProvisionBaseDN() string {
	base := strings.TrimSpace(c.Provision.BaseOU)
	if base == "" {
		return c.Directory.BaseDN
	}
	return base + "," + c.Directory.BaseDN
}
