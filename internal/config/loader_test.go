package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

// setupTestHome points HOME at a temp dir so the default config path is
// isolated.
func setupTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadWithFile_ValidYAML(t *testing.T) {
	setupTestHome(t)

	path := writeConfig(t, t.TempDir(), `scan:
  source_root: /src/n8n
  max_file_size: 1024
  ignore_file: .scanignore
output:
  root: /src/keys
  file: out/providers.json
filter:
  ai_keywords: [Acme, Zeta]
  service_keywords: []
extraction:
  match_timeout: 250ms
logging:
  level: debug
  format: json
`)

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}

	if cfg.Scan.SourceRoot != "/src/n8n" {
		t.Errorf("Scan.SourceRoot = %q, want /src/n8n", cfg.Scan.SourceRoot)
	}
	if cfg.Scan.MaxFileSize != 1024 {
		t.Errorf("Scan.MaxFileSize = %d, want 1024", cfg.Scan.MaxFileSize)
	}
	if cfg.Scan.IgnoreFile != ".scanignore" {
		t.Errorf("Scan.IgnoreFile = %q", cfg.Scan.IgnoreFile)
	}
	// Unset keys keep their defaults
	if cfg.Scan.CredentialsDir != DefaultCredentialsDir {
		t.Errorf("Scan.CredentialsDir = %q, want default", cfg.Scan.CredentialsDir)
	}
	if cfg.Scan.NodeSuffix != DefaultNodeSuffix {
		t.Errorf("Scan.NodeSuffix = %q, want default", cfg.Scan.NodeSuffix)
	}
	if got := cfg.OutputPath(); got != filepath.Join("/src/keys", "out/providers.json") {
		t.Errorf("OutputPath() = %q", got)
	}
	if len(cfg.Filter.AIKeywords) != 2 || cfg.Filter.AIKeywords[0] != "Acme" {
		t.Errorf("Filter.AIKeywords = %v", cfg.Filter.AIKeywords)
	}
	if cfg.Filter.ServiceKeywords == nil || len(cfg.Filter.ServiceKeywords) != 0 {
		t.Errorf("Filter.ServiceKeywords = %#v, want empty non-nil", cfg.Filter.ServiceKeywords)
	}
	if cfg.Extraction.MatchTimeout.Duration() != 250*time.Millisecond {
		t.Errorf("Extraction.MatchTimeout = %v", cfg.Extraction.MatchTimeout.Duration())
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadWithFile_EnvironmentOverride(t *testing.T) {
	setupTestHome(t)

	path := writeConfig(t, t.TempDir(), `scan:
  source_root: /from/yaml
output:
  root: /from/yaml
`)

	t.Setenv("PROVIDERSCAN_SCAN_SOURCE_ROOT", "/from/env")
	t.Setenv("PROVIDERSCAN_OUTPUT_PATH", "/tmp/catalog.json")
	t.Setenv("PROVIDERSCAN_EXTRACTION_MATCH_TIMEOUT", "2s")
	t.Setenv("PROVIDERSCAN_FILTER_AI_KEYWORDS", "Acme,Zeta")

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}

	if cfg.Scan.SourceRoot != "/from/env" {
		t.Errorf("Scan.SourceRoot = %q, want /from/env", cfg.Scan.SourceRoot)
	}
	if cfg.Output.Root != "/from/yaml" {
		t.Errorf("Output.Root = %q, want /from/yaml", cfg.Output.Root)
	}
	if cfg.OutputPath() != "/tmp/catalog.json" {
		t.Errorf("OutputPath() = %q, want /tmp/catalog.json", cfg.OutputPath())
	}
	if cfg.Extraction.MatchTimeout.Duration() != 2*time.Second {
		t.Errorf("Extraction.MatchTimeout = %v", cfg.Extraction.MatchTimeout.Duration())
	}
	if len(cfg.Filter.AIKeywords) != 2 || cfg.Filter.AIKeywords[1] != "Zeta" {
		t.Errorf("Filter.AIKeywords = %v", cfg.Filter.AIKeywords)
	}
}

func TestLoadWithFile_DefaultPath(t *testing.T) {
	home := setupTestHome(t)

	dir := filepath.Join(home, ".config", "providerscan")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, "scan:\n  source_root: /default/path\n")

	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}
	if cfg.Scan.SourceRoot != "/default/path" {
		t.Errorf("Scan.SourceRoot = %q, want /default/path", cfg.Scan.SourceRoot)
	}
}

func TestLoadWithFile_MissingDefaultFile(t *testing.T) {
	setupTestHome(t)

	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}

	want := Default()
	if cfg.Scan != want.Scan || cfg.Output != want.Output {
		t.Errorf("got %+v, want defaults %+v", cfg, want)
	}
	if cfg.OutputPath() != filepath.Join(".", DefaultOutputFile) {
		t.Errorf("OutputPath() = %q", cfg.OutputPath())
	}
}

func TestLoadWithFile_MissingExplicitFile(t *testing.T) {
	setupTestHome(t)

	_, err := LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadWithFile_InvalidYAML(t *testing.T) {
	setupTestHome(t)

	path := writeConfig(t, t.TempDir(), "scan: [unclosed\n")
	if _, err := LoadWithFile(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadWithFile_Validation(t *testing.T) {
	setupTestHome(t)

	path := writeConfig(t, t.TempDir(), "scan:\n  node_suffix: ts\n")
	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v, want validation left to the caller", err)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "scan.node_suffix") {
		t.Fatalf("expected node_suffix validation error, got %v", err)
	}
}

func TestLoadWithFile_InvalidEnvOverriddenBeforeValidate(t *testing.T) {
	setupTestHome(t)
	t.Setenv("PROVIDERSCAN_LOGGING_FORMAT", "text")

	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected logging.format error before override")
	}

	cfg.Logging.Format = "json"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after override = %v", err)
	}
}

func TestLoadWithFile_EnvironmentLists(t *testing.T) {
	setupTestHome(t)
	t.Setenv("PROVIDERSCAN_FILTER_AI_KEYWORDS", " Acme , ,Zeta")
	t.Setenv("PROVIDERSCAN_FILTER_SERVICE_KEYWORDS", "")

	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}

	want := []string{"Acme", "Zeta"}
	if !reflect.DeepEqual(cfg.Filter.AIKeywords, want) {
		t.Errorf("Filter.AIKeywords = %#v, want %#v", cfg.Filter.AIKeywords, want)
	}
	if cfg.Filter.ServiceKeywords == nil || len(cfg.Filter.ServiceKeywords) != 0 {
		t.Errorf("Filter.ServiceKeywords = %#v, want empty non-nil", cfg.Filter.ServiceKeywords)
	}
}

func TestLoadWithFile_EnvironmentListsUnset(t *testing.T) {
	setupTestHome(t)
	// Registered so the variables are restored after the test
	t.Setenv("PROVIDERSCAN_FILTER_AI_KEYWORDS", "")
	t.Setenv("PROVIDERSCAN_FILTER_SERVICE_KEYWORDS", "")
	os.Unsetenv("PROVIDERSCAN_FILTER_AI_KEYWORDS")
	os.Unsetenv("PROVIDERSCAN_FILTER_SERVICE_KEYWORDS")

	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}
	if cfg.Filter.AIKeywords != nil || cfg.Filter.ServiceKeywords != nil {
		t.Errorf("Filter = %+v, want nil keyword sets", cfg.Filter)
	}
}

func TestLoadWithFile_NumericDuration(t *testing.T) {
	setupTestHome(t)

	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"integer milliseconds", "500", 500 * time.Millisecond, false},
		{"fractional milliseconds", "1.5", 1500 * time.Microsecond, false},
		{"string duration", "2s", 2 * time.Second, false},
		{"quoted integer", `"750"`, 750 * time.Millisecond, false},
		{"negative", "-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "extraction:\n  match_timeout: "+tt.value+"\n")
			cfg, err := LoadWithFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got match_timeout=%v", cfg.Extraction.MatchTimeout.Duration())
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadWithFile() error = %v", err)
			}
			if got := cfg.Extraction.MatchTimeout.Duration(); got != tt.want {
				t.Errorf("match_timeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadWithFile_FileTooLarge(t *testing.T) {
	setupTestHome(t)

	var buf bytes.Buffer
	buf.WriteString("scan:\n  source_root: /x\n")
	for buf.Len() <= maxConfigFileSize {
		buf.WriteString("# padding padding padding padding padding padding\n")
	}
	path := writeConfig(t, t.TempDir(), buf.String())

	_, err := LoadWithFile(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected size error, got %v", err)
	}
}

func TestLoadWithFile_Directory(t *testing.T) {
	setupTestHome(t)

	_, err := LoadWithFile(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "regular file") {
		t.Fatalf("expected regular file error, got %v", err)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"PROVIDERSCAN_SCAN_SOURCE_ROOT":         "scan.source_root",
		"PROVIDERSCAN_EXTRACTION_MATCH_TIMEOUT": "extraction.match_timeout",
		"PROVIDERSCAN_OUTPUT_FILE":              "output.file",
		"PROVIDERSCAN_DEBUG":                    "debug",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "PROVIDERSCAN_TEST_FROM_FILE=file\nPROVIDERSCAN_TEST_PRESET=file\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PROVIDERSCAN_TEST_PRESET", "process")
	// Registered so the variable is restored after the test
	t.Setenv("PROVIDERSCAN_TEST_FROM_FILE", "")
	os.Unsetenv("PROVIDERSCAN_TEST_FROM_FILE")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("PROVIDERSCAN_TEST_FROM_FILE"); got != "file" {
		t.Errorf("PROVIDERSCAN_TEST_FROM_FILE = %q, want file", got)
	}
	if got := os.Getenv("PROVIDERSCAN_TEST_PRESET"); got != "process" {
		t.Errorf("PROVIDERSCAN_TEST_PRESET = %q, want process (not overridden)", got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing explicit env file")
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("LoadEnvFile(\"\") with no .env = %v, want nil", err)
	}
}
