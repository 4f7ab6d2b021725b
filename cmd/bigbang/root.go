package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pthm/bigbang/internal/cli"
	"github.com/pthm/bigbang/internal/cosmos"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string

	// Persistent flags
	cfgFile string
	verbose int
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "bigbang",
	Short: "Cosmos DB topology reconciler",
	Long: `bigbang - Cosmos DB topology reconciler

bigbang reads a desired-state document describing one database, its
containers and their stored procedures and user-defined functions, and
converges the live account to it: missing resources are created, existing
ones replaced, and resources no longer declared are deleted.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupTopology = "topology"
	groupUtility  = "utility"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover bigbang.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupTopology, Title: "Topology:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	validateCmd.GroupID = groupTopology
	migrateCmd.GroupID = groupTopology
	statusCmd.GroupID = groupTopology
	doctorCmd.GroupID = groupTopology
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)

	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveBool returns true if any of the provided values is true.
// Used for boolean flags where any true value should win.
func resolveBool(values ...bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}

// openAccount builds the account client from the flag or configuration.
func openAccount(flagConnStr string) (*cosmos.Client, error) {
	connStr := flagConnStr
	if connStr == "" {
		var err error
		connStr, err = cfg.ResolvedConnectionString()
		if err != nil {
			return nil, cli.ConfigError("account configuration (use --connection-string or set in config)", err)
		}
	}

	client, err := cosmos.NewClient(connStr, nil)
	if err != nil {
		if errors.Is(err, cosmos.ErrInvalidConnectionString) {
			return nil, cli.ConfigError("connection string", err)
		}
		return nil, cli.ConnectError("creating account client", err)
	}
	return client, nil
}

// newLogger builds the logger from configuration and the persistent flags.
func newLogger() (*zap.Logger, error) {
	level, format := "", ""
	if cfg != nil {
		level, format = cfg.Log.Level, cfg.Log.Format
	}
	logger, err := cli.NewLogger(level, format, verbose, quiet)
	if err != nil {
		return nil, cli.ConfigError("logging configuration", err)
	}
	return logger, nil
}
