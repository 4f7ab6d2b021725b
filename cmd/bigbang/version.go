package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/bigbang/internal/version"
)

func init() {
	// Covers "go install github.com/pthm/bigbang/cmd/bigbang@version" builds.
	version.FromBuildInfo()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}
