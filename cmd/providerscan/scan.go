package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/providerscan/internal/catalog"
	"github.com/fyrsmithlabs/providerscan/internal/config"
	"github.com/fyrsmithlabs/providerscan/internal/extraction"
	"github.com/fyrsmithlabs/providerscan/internal/icon"
	"github.com/fyrsmithlabs/providerscan/internal/logging"
	"github.com/fyrsmithlabs/providerscan/internal/provider"
	"github.com/fyrsmithlabs/providerscan/internal/report"
	"github.com/fyrsmithlabs/providerscan/internal/scanner"
)

var (
	sourceRoot string
	outputRoot string
	outputPath string
	excludes   []string
	dryRun     bool
	logLevel   string
	logFormat  string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&sourceRoot, "source-root", "s", "", "n8n checkout to scan")
	scanCmd.Flags().StringVar(&outputRoot, "output-root", "", "directory the catalog file is written under")
	scanCmd.Flags().StringVarP(&outputPath, "output", "o", "", "catalog path, overriding --output-root")
	scanCmd.Flags().StringSliceVarP(&excludes, "exclude", "x", nil, "extra ignore patterns (doublestar syntax)")
	scanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "scan and summarize without writing the catalog")
	scanCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	scanCmd.Flags().StringVar(&logFormat, "log-format", "", "log format: console or json")
}

// scanCmd scans a source tree and writes the catalog
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan an n8n checkout and write the provider catalog",
	Long: `Scan the credential and node definitions of an n8n checkout and write
every AI or service provider found to a JSON catalog.

Settings are read from the config file, then PROVIDERSCAN_* environment
variables, then flags. Logs go to stderr; the summary goes to stdout.

Paths matched by .providerscanignore in the source root, or by --exclude,
are skipped.

Examples:
  # Scan the current directory
  providerscan scan

  # Scan a checkout and write the catalog elsewhere
  providerscan scan -s ~/src/n8n -o /tmp/providers.json

  # Debug extraction without touching the catalog
  providerscan scan --dry-run --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyScanFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := logging.WithRunID(cmd.Context(), logging.NewRunID())
	ctx = logging.WithLogger(ctx, logger)

	exCfg := extraction.DefaultConfig()
	exCfg.MatchTimeout = cfg.Extraction.MatchTimeout.Duration()
	ex, err := extraction.NewExtractor(exCfg)
	if err != nil {
		return fmt.Errorf("creating extractor: %w", err)
	}

	opts := scanner.OptionsFromConfig(cfg)
	opts.ExcludePatterns = excludes

	svc, err := scanner.NewService(opts, scanner.Deps{
		Extractor: ex,
		Filter:    provider.NewFilter(cfg.Filter.AIKeywords, cfg.Filter.ServiceKeywords),
		Icons:     icon.NewResolver(icon.DefaultPatterns, icon.DefaultDarkMarker),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.Start(out, opts.SourceRoot); err != nil {
		return err
	}

	result, err := svc.Scan(ctx)
	if err != nil {
		logger.Error(ctx, "scan failed", zap.Error(err))
		return err
	}

	dest := cfg.OutputPath()
	if !dryRun {
		if err := catalog.Write(dest, result.Records); err != nil {
			logger.Error(ctx, "writing catalog failed", zap.String("path", dest), zap.Error(err))
			return err
		}
		logger.Info(ctx, "catalog written", zap.String("path", dest), zap.Int("records", len(result.Records)))
	}

	return report.Summary(out, result, report.Options{OutputPath: dest, DryRun: dryRun})
}

// applyScanFlags copies explicitly set flags over the loaded configuration.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("source-root") {
		cfg.Scan.SourceRoot = sourceRoot
	}
	if flags.Changed("output-root") {
		cfg.Output.Root = outputRoot
	}
	if flags.Changed("output") {
		cfg.Output.Path = outputPath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
}

// newLogger builds the stderr logger from the logging section.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Level = level
	logCfg.Format = cfg.Logging.Format
	logCfg.Sampling.Enabled = cfg.Logging.Sampling

	logger, err := logging.NewLogger(logCfg, zapcore.AddSync(cmd.ErrOrStderr()))
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, nil
}
