package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
)

// DefaultPath returns ~/.config/providerscan/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "providerscan", "config.yaml"), nil
}

// LoadWithFile loads configuration from a YAML file, then overrides it with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (PROVIDERSCAN_SCAN_SOURCE_ROOT, ...)
//  2. YAML config file
//  3. Hardcoded defaults
//
// An empty configPath uses DefaultPath, and a missing default file is not an
// error. A missing file named explicitly is.
//
// Environment variables drop the prefix and split on the first underscore:
//
//	PROVIDERSCAN_SCAN_SOURCE_ROOT        -> scan.source_root
//	PROVIDERSCAN_EXTRACTION_MATCH_TIMEOUT -> extraction.match_timeout
//	PROVIDERSCAN_FILTER_AI_KEYWORDS=a,b   -> filter.ai_keywords: [a b]
//
// A filter list variable that is set but empty disables that keyword set.
//
// The result has defaults applied but is not validated; callers apply their
// own overrides and then call Validate.
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	explicit := configPath != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	content, err := readConfigFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No default file; env and defaults only
	default:
		return nil, err
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				numberToDurationHook,
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// envValue maps a variable to its key and value. Filter lists are split on
// commas; an empty variable yields an empty list.
func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if !strings.HasPrefix(key, "filter.") {
		return key, value
	}
	list := []string{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return key, list
}

var durationType = reflect.TypeOf(Duration(0))

// numberToDurationHook reads a bare YAML number as milliseconds, matching
// Duration.UnmarshalText.
func numberToDurationHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != durationType {
		return data, nil
	}
	var ms float64
	switch v := data.(type) {
	case int:
		ms = float64(v)
	case int64:
		ms = float64(v)
	case uint64:
		ms = float64(v)
	case float64:
		ms = v
	default:
		return data, nil
	}
	if ms < 0 {
		return nil, fmt.Errorf("duration cannot be negative: %v", data)
	}
	return Duration(time.Duration(ms * float64(time.Millisecond))), nil
}

// envKey maps PROVIDERSCAN_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// readConfigFile opens the file once and validates it through the open
// descriptor.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// validateConfigFileProperties checks the file is a regular file within the
// size limit.
func validateConfigFileProperties(info os.FileInfo) error {
	if !info.Mode().IsRegular() {
		return fmt.Errorf("config path is not a regular file: %s", info.Name())
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

// LoadEnvFile loads KEY=value pairs from a .env file into the process
// environment without overriding variables that are already set. An empty
// path means ".env" in the working directory, which may be absent.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	// Scan defaults
	if cfg.Scan.SourceRoot == "" {
		cfg.Scan.SourceRoot = "."
	}
	if cfg.Scan.CredentialsDir == "" {
		cfg.Scan.CredentialsDir = DefaultCredentialsDir
	}
	if cfg.Scan.CredentialSuffix == "" {
		cfg.Scan.CredentialSuffix = DefaultCredentialSuffix
	}
	if cfg.Scan.NodesDir == "" {
		cfg.Scan.NodesDir = DefaultNodesDir
	}
	if cfg.Scan.NodeSuffix == "" {
		cfg.Scan.NodeSuffix = DefaultNodeSuffix
	}
	if cfg.Scan.MaxFileSize == 0 {
		cfg.Scan.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Scan.IgnoreFile == "" {
		cfg.Scan.IgnoreFile = DefaultIgnoreFile
	}

	// Output defaults
	if cfg.Output.Root == "" {
		cfg.Output.Root = "."
	}
	if cfg.Output.File == "" {
		cfg.Output.File = DefaultOutputFile
	}

	// Extraction defaults
	if cfg.Extraction.MatchTimeout == 0 {
		cfg.Extraction.MatchTimeout = Duration(DefaultMatchTimeout)
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
