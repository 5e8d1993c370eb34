// Command ad-provision reconciles a CSV of user records against a
// directory service: it ensures target OUs exist, replaces each listed
// account and synchronizes its group memberships, then prints a run
// summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/isometry/ad-provision/internal/config"
	"github.com/isometry/ad-provision/internal/directory"
	"github.com/isometry/ad-provision/internal/input"
	"github.com/isometry/ad-provision/internal/observability"
	"github.com/isometry/ad-provision/internal/reconcile"
)

func main() {
	configPath := flag.String("config", "ad-provision.toml", "path to the TOML configuration file")
	inputPath := flag.String("input", "", "path to the CSV input file (required)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	logger := observability.InitLogger("ad-provision", *verbose)

	if *inputPath == "" {
		logger.Fatal().Msg("-input is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration rejected")
	}

	file, err := os.Open(*inputPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open input file")
	}
	defer file.Close()

	conn, err := directory.Dial(connectionConfig(cfg))
	if err != nil {
		logger.Fatal().Err(err).Msg("directory connection failed")
	}

	service := directory.NewService(conn, cfg.Directory.BaseDN, logger)
	service.SetTimeout(cfg.Directory.Timeout())
	defer service.Close()

	engine := reconcile.New(service, reconcile.Settings{
		BaseDN:                cfg.ProvisionBaseDN(),
		DefaultMail:           cfg.Provision.DefaultMail,
		StandardPassword:      cfg.Provision.StandardPassword,
		ElevatedPassword:      cfg.Provision.ElevatedPassword,
		HomeDirectoryTemplate: cfg.Provision.HomeDirectoryTemplate,
		UPNSuffix:             cfg.Provision.UPNSuffix,
		DeleteExisting:        cfg.Provision.DeleteExisting,
		ElevatedGroups:        cfg.Provision.ElevatedGroups,
	}, logger)

	summary, err := engine.Run(context.Background(), input.NewReader(file, logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("run aborted")
	}

	fmt.Printf("run %s: processed=%d skipped=%d errored=%d\n",
		summary.RunID, summary.Processed, summary.Skipped, summary.Errored)
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
