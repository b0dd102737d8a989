// Package main implements the providerscan CLI, which scans an n8n checkout
// for AI and service provider definitions and writes them as a JSON catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/providerscan/internal/config"
)

var (
	// version information, set via -ldflags
	version = "dev"
	commit  = "none"

	configPath string
	envFile    string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "providerscan",
	Short: "Build a provider catalog from an n8n source tree",
	Long: `providerscan walks the credential and node definitions of an n8n
checkout, keeps the files that belong to AI or service providers and extracts
their names, base URLs, documentation links and icons into a JSON catalog.

Examples:
  # Scan the current checkout and write scripts/n8n_providers.json
  providerscan scan

  # Scan another checkout without writing anything
  providerscan scan --source-root ~/src/n8n --dry-run

  # Show the extraction rules in priority order
  providerscan rules`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.SetVersionTemplate("providerscan {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/providerscan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file loaded before the config (default .env)")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the dotenv file, then the config file and environment.
// The result is not validated.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	return config.LoadWithFile(configPath)
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "providerscan %s (commit %s)\n", version, commit)
	},
}
