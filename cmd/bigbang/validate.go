package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pthm/bigbang/internal/cli"
	"github.com/pthm/bigbang/pkg/migrator"
	"github.com/pthm/bigbang/pkg/model"
	"github.com/pthm/bigbang/pkg/parser"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the document and its scripts",
	Long: `Validate the desired-state document offline: decode it, check container
and script ids for collisions, and read every referenced script file.`,
	Example: `  # Validate a specific document
  bigbang validate -f topology/database.json

  # Validate using config file settings
  bigbang validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), resolveString(validateFile, cfg.File))
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "desired-state document (.json, .yaml, .toml)")
}

func runValidate(out io.Writer, file string) error {
	path, err := migrator.CheckDocument(file)
	if err != nil {
		return cli.DocumentError("document not found", err)
	}

	db, err := parser.LoadFile(path)
	if err != nil {
		return cli.DocumentError("invalid document", err)
	}

	if !quiet {
		_, _ = fmt.Fprintf(out, "Document is valid. Database %s with %d containers:\n", db.ID, len(db.Containers))
		for _, c := range db.Containers {
			_, _ = fmt.Fprintf(out, "  - %s (partition key %s, %d stored procedures, %d user defined functions)\n",
				c.ID, c.PartitionKey,
				len(c.ScriptsOf(model.StoredProcedure)),
				len(c.ScriptsOf(model.UserDefinedFunction)))
		}
	}
	return nil
}
