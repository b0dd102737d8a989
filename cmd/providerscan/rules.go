package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/providerscan/internal/extraction"
	"github.com/fyrsmithlabs/providerscan/internal/report"
)

var rulesJSON bool

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "print rules as JSON")
}

// rulesCmd lists the extraction rules
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the field extraction rules in priority order",
	Long: `List the regex rules used to pull fields out of provider source files.

Rules for the same field are tried in the order shown; the first accepted
capture wins.

Examples:
  # Human readable listing
  providerscan rules

  # Machine readable listing
  providerscan rules --json`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	ex, err := extraction.NewExtractor(extraction.DefaultConfig())
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}

	if !rulesJSON {
		return report.Rules(cmd.OutOrStdout(), ex.Rules())
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ex.Rules()); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
