package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pthm/bigbang/internal/cli"
	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/migrator"
)

var (
	migrateConnStr         string
	migrateFile            string
	migrateDryRun          bool
	migrateContinueOnError bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the document to the account",
	Long: `Reconcile the account against the desired-state document.

Containers declared in the document are created or fully replaced together
with their stored procedures and user-defined functions. Containers that
exist in the account but are not declared are deleted with their data.`,
	Example: `  # Apply a document
  bigbang migrate -c "AccountEndpoint=https://acct.documents.azure.com:443/;AccountKey=...;" -f database.json

  # Preview the actions without applying them
  bigbang migrate -f database.json --dry-run

  # Keep going when a container fails
  bigbang migrate -f database.json --continue-on-error`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := resolveString(migrateFile, cfg.File)
		dryRun := resolveBool(migrateDryRun, cfg.Migrate.DryRun)
		continueOnError := resolveBool(migrateContinueOnError, cfg.Migrate.ContinueOnError)

		client, err := openAccount(migrateConnStr)
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return runMigrate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), client, logger, file, dryRun, continueOnError)
	},
}

func init() {
	f := migrateCmd.Flags()
	f.StringVarP(&migrateConnStr, "connection-string", "c", "", "account connection string")
	f.StringVarP(&migrateFile, "file", "f", "", "desired-state document (.json, .yaml, .toml)")
	f.BoolVar(&migrateDryRun, "dry-run", false, "print planned actions without applying them")
	f.BoolVar(&migrateContinueOnError, "continue-on-error", false, "skip a failing container instead of stopping")
}

func runMigrate(ctx context.Context, out, errOut io.Writer, gw gateway.Gateway, logger *zap.Logger, file string, dryRun, continueOnError bool) error {
	sess, err := migrator.Validate(ctx, gw, file)
	if err != nil {
		return cli.Classify("validation failed", err)
	}

	opts := migrator.Options{
		ContinueOnError: continueOnError,
		Logger:          logger,
	}
	if dryRun {
		opts.DryRun = out
		if !quiet {
			_, _ = fmt.Fprintln(errOut, "# Dry-run mode: actions will be printed but not applied")
		}
	}

	report, err := migrator.Run(ctx, sess, opts)
	if report != nil && !dryRun && !quiet {
		report.Print(out)
	}
	if err != nil {
		return cli.Classify("migration failed", err)
	}
	return nil
}
