package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/pthm/bigbang/internal/cli"
)

var configShowSource bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration utilities",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Long: `Show the effective configuration after merging defaults, config file, and environment variables.
Account keys are redacted.`,
	Example: `  # Show effective configuration
  bigbang config show

  # Show configuration with source file path
  bigbang config show --source`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd.OutOrStdout(), cfg, configPath, configShowSource)
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowSource, "source", false, "show config file source")
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(out io.Writer, c *cli.Config, path string, showSource bool) error {
	if showSource {
		if path != "" {
			_, _ = fmt.Fprintf(out, "Config file: %s\n\n", path)
		} else {
			_, _ = fmt.Fprint(out, "Config file: (none, using defaults)\n\n")
		}
	}

	data, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(out, string(data))
	return nil
}
