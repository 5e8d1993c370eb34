// Command ad-export dumps the provisioned accounts back out as CSV in
// the same positional layout ad-provision consumes, so a directory can
// be round-tripped or audited.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"os"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/isometry/ad-provision/internal/config"
	"github.com/isometry/ad-provision/internal/directory"
	"github.com/isometry/ad-provision/internal/observability"
)

var header = []string{
	"SamAccountName", "GivenName", "Surname", "Mail", "Department", "OU", "Groups",
}

func main() {
	configPath := flag.String("config", "ad-provision.toml", "path to the TOML configuration file")
	outputPath := flag.String("output", "", "path to the CSV output file (defaults to stdout)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := observability.InitLogger("ad-export", *verbose)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration rejected")
	}

	conn, err := directory.Dial(connectionConfig(cfg))
	if err != nil {
		logger.Fatal().Err(err).Msg("directory connection failed")
	}

	service := directory.NewService(conn, cfg.Directory.BaseDN, logger)
	service.SetTimeout(cfg.Directory.Timeout())
	defer service.Close()

	accounts, err := service.ListAccounts(context.Background(), cfg.ProvisionBaseDN())
	if err != nil {
		logger.Fatal().Err(err).Msg("account listing failed")
	}

	out := os.Stdout
	if *outputPath != "" {
		out, err = os.Create(*outputPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create output file")
		}
		defer out.Close()
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		logger.Fatal().Err(err).Msg("write failed")
	}
	for _, account := range accounts {
		row := []string{
			account.SAMAccountName,
			account.GivenName,
			account.Surname,
			account.Mail,
			account.Department,
			ouComponent(account.DN),
			strings.Join(groupNames(account.MemberOf), ";"),
		}
		if err := w.Write(row); err != nil {
			logger.Fatal().Err(err).Msg("write failed")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Fatal().Err(err).Msg("write failed")
	}

	logger.Info().Int("accounts", len(accounts)).Msg("export finished")
}

// ouComponent extracts the name of the OU the entry sits in: the first
// OU-typed relative component of its distinguished path.
func ouComponent(dn string) string {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		return ""
	}
	for _, rdn := range parsed.RDNs {
		for _, attr := range rdn.Attributes {
			if strings.EqualFold(attr.Type, "OU") {
				return attr.Value
			}
		}
	}
	return ""
}

// groupNames reduces memberOf group paths to their common names.
func groupNames(memberOf []string) []string {
	names := make([]string, 0, len(memberOf))
	for _, dn := range memberOf {
		parsed, err := ldap.ParseDN(dn)
		if err != nil || len(parsed.RDNs) == 0 || len(parsed.RDNs[0].Attributes) == 0 {
			continue
		}
		names = append(names, parsed.RDNs[0].Attributes[0].Value)
	}
	return names
}

// connectionConfig maps the file configuration onto the directory
// package's connection settings.
func connectionConfig(cfg config.Config) *directory.ConnectionConfig {
	return &directory.ConnectionConfig{
		URL:                cfg.Directory.URL,
		Domain:             cfg.Directory.Domain,
		BaseDN:             cfg.Directory.BaseDN,
		Username:           cfg.Directory.Username,
		Password:           cfg.Directory.Password,
		KerberosRealm:      cfg.Directory.KerberosRealm,
		KerberosKeytab:     cfg.Directory.KerberosKeytab,
		KerberosCCache:     cfg.Directory.KerberosCCache,
		KerberosConfig:     cfg.Directory.KerberosConfig,
		KerberosSPN:        cfg.Directory.KerberosSPN,
		UseTLS:             cfg.Directory.UseTLS,
		InsecureSkipVerify: cfg.Directory.InsecureSkipVerify,
		Timeout:            cfg.Directory.Timeout(),
	}
}
