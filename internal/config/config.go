// Package config provides configuration loading for providerscan.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then PROVIDERSCAN_* environment variables. Command-line flags are applied
// by the caller on top of the loaded value, which is then checked with
// Validate.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// EnvPrefix is the prefix shared by every providerscan environment variable.
const EnvPrefix = "PROVIDERSCAN_"

// Defaults for an n8n checkout.
const (
	DefaultCredentialsDir   = "packages/nodes-base/credentials"
	DefaultCredentialSuffix = ".credentials.ts"
	DefaultNodesDir         = "packages/nodes-base/nodes"
	DefaultNodeSuffix       = ".node.ts"
	DefaultIgnoreFile       = ".providerscanignore"
	DefaultOutputFile       = "scripts/n8n_providers.json"
	DefaultMaxFileSize      = 4 << 20
	DefaultMatchTimeout     = time.Second
)

// Config holds the complete providerscan configuration.
type Config struct {
	Scan       ScanConfig       `koanf:"scan"`
	Output     OutputConfig     `koanf:"output"`
	Filter     FilterConfig     `koanf:"filter"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ScanConfig locates the source files inside the scanned tree.
type ScanConfig struct {
	SourceRoot       string `koanf:"source_root"`
	CredentialsDir   string `koanf:"credentials_dir"`
	CredentialSuffix string `koanf:"credential_suffix"`
	NodesDir         string `koanf:"nodes_dir"`
	NodeSuffix       string `koanf:"node_suffix"`
	MaxFileSize      int64  `koanf:"max_file_size"` // bytes
	IgnoreFile       string `koanf:"ignore_file"`   // relative to SourceRoot
}

// OutputConfig locates the catalog file.
type OutputConfig struct {
	Root string `koanf:"root"`
	File string `koanf:"file"` // relative to Root
	Path string `koanf:"path"` // overrides Root/File when set
}

// FilterConfig overrides the provider keyword sets. A nil list keeps the
// built-in set; an empty list disables that set.
type FilterConfig struct {
	AIKeywords      []string `koanf:"ai_keywords"`
	ServiceKeywords []string `koanf:"service_keywords"`
}

// ExtractionConfig tunes the regex rule engine.
type ExtractionConfig struct {
	MatchTimeout Duration `koanf:"match_timeout"`
}

// LoggingConfig holds the logger settings exposed to users.
type LoggingConfig struct {
	Level    string `koanf:"level"`
	Format   string `koanf:"format"`
	Sampling bool   `koanf:"sampling"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// OutputPath returns the catalog destination.
func (c *Config) OutputPath() string {
	if c.Output.Path != "" {
		return c.Output.Path
	}
	return filepath.Join(c.Output.Root, c.Output.File)
}

// Validate validates the configuration.
//
// Returns an error if:
//   - a root, directory or suffix is empty
//   - a suffix does not start with "."
//   - the file size limit or match timeout is not positive
//   - the log format is not json or console
func (c *Config) Validate() error {
	if c.Scan.SourceRoot == "" {
		return errors.New("scan.source_root is required")
	}
	if c.Scan.CredentialsDir == "" || c.Scan.NodesDir == "" {
		return errors.New("scan.credentials_dir and scan.nodes_dir are required")
	}
	if err := validateSuffix("scan.credential_suffix", c.Scan.CredentialSuffix); err != nil {
		return err
	}
	if err := validateSuffix("scan.node_suffix", c.Scan.NodeSuffix); err != nil {
		return err
	}
	if c.Scan.MaxFileSize <= 0 {
		return fmt.Errorf("scan.max_file_size must be positive, got %d", c.Scan.MaxFileSize)
	}

	if c.Output.Path == "" && (c.Output.Root == "" || c.Output.File == "") {
		return errors.New("output.root and output.file are required when output.path is not set")
	}

	if c.Extraction.MatchTimeout.Duration() <= 0 {
		return errors.New("extraction.match_timeout must be positive")
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}

	return nil
}

func validateSuffix(name, suffix string) error {
	if len(suffix) < 2 || !strings.HasPrefix(suffix, ".") {
		return fmt.Errorf("%s must start with '.', got %q", name, suffix)
	}
	return nil
}
