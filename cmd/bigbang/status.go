package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/bigbang/internal/cli"
	"github.com/pthm/bigbang/pkg/gateway"
	"github.com/pthm/bigbang/pkg/migrator"
)

var (
	statusConnStr string
	statusFile    string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show drift between the document and the account",
	Long:  `Show which containers a migration would create, update and delete, without changing anything.`,
	Example: `  # Check status
  bigbang status -f database.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := resolveString(statusFile, cfg.File)

		client, err := openAccount(statusConnStr)
		if err != nil {
			return err
		}

		return runStatus(cmd.Context(), cmd.OutOrStdout(), client, file)
	},
}

func init() {
	f := statusCmd.Flags()
	f.StringVarP(&statusConnStr, "connection-string", "c", "", "account connection string")
	f.StringVarP(&statusFile, "file", "f", "", "desired-state document (.json, .yaml, .toml)")
}

func runStatus(ctx context.Context, out io.Writer, gw gateway.Gateway, file string) error {
	sess, err := migrator.Validate(ctx, gw, file)
	if err != nil {
		return cli.Classify("validation failed", err)
	}

	s, err := migrator.StatusOf(ctx, sess)
	if err != nil {
		return cli.Classify("getting status", err)
	}

	if s.DatabaseExists {
		_, _ = fmt.Fprintf(out, "Database:  %s (present)\n", s.Database)
	} else {
		_, _ = fmt.Fprintf(out, "Database:  %s (missing)\n", s.Database)
	}

	_, _ = fmt.Fprintln(out, "Containers:")
	for _, id := range s.Split.CreateIDs() {
		_, _ = fmt.Fprintf(out, "  + %s (create)\n", id)
	}
	for _, id := range s.Split.UpdateIDs() {
		_, _ = fmt.Fprintf(out, "  ~ %s (update)\n", id)
	}
	for _, id := range s.Split.DeleteIDs() {
		_, _ = fmt.Fprintf(out, "  - %s (delete)\n", id)
	}

	if !s.InSync() {
		_, _ = fmt.Fprintln(out, "\nRun 'bigbang migrate' to converge the account.")
	}
	return nil
}
