package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/bigbang/internal/cli"
	"github.com/pthm/bigbang/internal/doctor"
	"github.com/pthm/bigbang/pkg/gateway"
)

var (
	doctorConnStr string
	doctorFile    string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks",
	Long:  `Run read-only health checks on the document and the account it targets.`,
	Example: `  # Run health checks
  bigbang doctor -f database.json

  # Run with verbose output
  bigbang doctor -f database.json -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := resolveString(doctorFile, cfg.File)
		client, err := openAccount(doctorConnStr)
		if err != nil {
			return err
		}

		return runDoctor(cmd.Context(), cmd.OutOrStdout(), client, file, verbose > 0)
	},
}

func init() {
	f := doctorCmd.Flags()
	f.StringVarP(&doctorConnStr, "connection-string", "c", "", "account connection string")
	f.StringVarP(&doctorFile, "file", "f", "", "desired-state document (.json, .yaml, .toml)")
}

func runDoctor(ctx context.Context, out io.Writer, gw gateway.Gateway, file string, verboseFlag bool) error {
	if !quiet {
		_, _ = fmt.Fprintln(out, "bigbang doctor - Health Check")
	}

	report, err := doctor.New(gw, file).Run(ctx)
	if err != nil {
		return cli.GeneralError("running doctor", err)
	}

	report.Print(out, verboseFlag)

	if report.HasErrors() {
		return cli.GeneralError("health checks failed", nil)
	}
	return nil
}
