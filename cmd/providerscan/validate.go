package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/providerscan/internal/catalog"
	"github.com/fyrsmithlabs/providerscan/internal/provider"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateCmd checks an existing catalog against the schema
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a provider catalog against the catalog schema",
	Long: `Check that a provider catalog is well formed: a JSON array of credential
and node records with every key present and in the expected shape.

Without an argument the catalog path from the configuration is checked:
output.path, or output.root joined with output.file, after the config file
and PROVIDERSCAN_* environment variables are applied.

Examples:
  # Check the configured catalog
  providerscan validate

  # Check the catalog of another config
  providerscan validate --config ./providerscan.yaml

  # Check another file
  providerscan validate /tmp/providers.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		path = cfg.OutputPath()
	}

	records, err := catalog.Read(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var credentials, nodes int
	for _, r := range records {
		switch r.Kind {
		case provider.KindCredential:
			credentials++
		case provider.KindNode:
			nodes++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records (%d credentials, %d nodes)\n",
		path, len(records), credentials, nodes)
	return nil
}
