package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/fyrsmithlabs/providerscan/internal/catalog"
	"github.com/fyrsmithlabs/providerscan/internal/extraction"
	"github.com/fyrsmithlabs/providerscan/internal/scanner"
)

const testCredential = `export class OpenAiApi implements ICredentialType {
	name = 'openAiApi';
	displayName = 'OpenAi';
	documentationUrl = 'openAi';
	test: ICredentialTestRequest = {
		request: { baseURL: 'https://api.openai.com/v1', url: '/models' },
	};
}
`

const testNode = `export class Notion implements INodeType {
	description: INodeTypeDescription = {
		displayName: 'Notion',
		requestDefaults: { baseURL: 'https://api.notion.com/v1' },
	};
}
`

// buildCheckout writes a minimal n8n tree and returns its root.
func buildCheckout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"packages/nodes-base/credentials/OpenAiApi.credentials.ts": testCredential,
		"packages/nodes-base/credentials/SlackApi.credentials.ts":  "name = 'slackApi';",
		"packages/nodes-base/nodes/Notion/Notion.node.ts":          testNode,
		"packages/nodes-base/nodes/Notion/notion.svg":              "<svg/>",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// resetFlags restores the root and subcommand flags to their defaults
// between runs.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else if err := f.Value.Set(f.DefValue); err != nil {
			t.Fatalf("resetting --%s: %v", f.Name, err)
		}
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(reset)
	}
}

// execute runs the CLI with an isolated HOME and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	resetFlags(t)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Commands(t *testing.T) {
	want := []string{"rules", "scan", "validate", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				if cmd.Short == "" {
					t.Errorf("%s command should have Short description", name)
				}
				break
			}
		}
		if !found {
			t.Errorf("%s command not found in rootCmd", name)
		}
	}
}

func TestScan_WritesCatalog(t *testing.T) {
	root := buildCheckout(t)
	out := filepath.Join(t.TempDir(), "scripts", "n8n_providers.json")

	stdout, stderr, err := execute(t, "scan", "--source-root", root, "--output", out, "--log-format", "json")
	if err != nil {
		t.Fatalf("scan failed: %v\nstderr: %s", err, stderr)
	}

	for _, want := range []string{
		"Scanning n8n provider configuration...",
		"Found 2 provider configurations",
		"Results saved to: " + out,
		"  - OpenAi\n    BaseURL: https://api.openai.com/v1\n",
		"  - Notion\n    BaseURL: https://api.notion.com/v1\n    Icon: notion.svg\n",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, `"level"`) {
		t.Errorf("logs leaked to stdout:\n%s", stdout)
	}
	if !strings.Contains(stderr, "catalog written") {
		t.Errorf("stderr missing catalog log:\n%s", stderr)
	}

	records, err := catalog.Read(out)
	if err != nil {
		t.Fatalf("reading catalog: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].File != "packages/nodes-base/credentials/OpenAiApi.credentials.ts" {
		t.Errorf("unexpected first record file %q", records[0].File)
	}
}

func TestScan_Idempotent(t *testing.T) {
	root := buildCheckout(t)
	out := filepath.Join(t.TempDir(), "providers.json")

	if _, _, err := execute(t, "scan", "-s", root, "-o", out); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "scan", "-s", root, "-o", out); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("catalog changed between runs:\n%s\n---\n%s", first, second)
	}
}

func TestScan_OutputRoot(t *testing.T) {
	root := buildCheckout(t)
	outRoot := t.TempDir()

	if _, stderr, err := execute(t, "scan", "-s", root, "--output-root", outRoot); err != nil {
		t.Fatalf("scan failed: %v\nstderr: %s", err, stderr)
	}

	if _, err := os.Stat(filepath.Join(outRoot, "scripts", "n8n_providers.json")); err != nil {
		t.Errorf("catalog not written under output root: %v", err)
	}
}

func TestScan_DryRun(t *testing.T) {
	root := buildCheckout(t)
	out := filepath.Join(t.TempDir(), "providers.json")

	stdout, _, err := execute(t, "scan", "-s", root, "-o", out, "--dry-run")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(stdout, "Dry run:") {
		t.Errorf("expected dry run notice:\n%s", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run wrote the catalog: %v", err)
	}
}

func TestScan_Exclude(t *testing.T) {
	root := buildCheckout(t)
	out := filepath.Join(t.TempDir(), "providers.json")

	stdout, _, err := execute(t, "scan", "-s", root, "-o", out, "--exclude", "**/Notion/**")
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(stdout, "Found 1 provider configurations") {
		t.Errorf("expected 1 record:\n%s", stdout)
	}
	if !strings.Contains(stdout, "1 ignored") {
		t.Errorf("expected ignored count in stats:\n%s", stdout)
	}
}

func TestScan_ConfigFile(t *testing.T) {
	root := buildCheckout(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "from-config.json")

	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := "scan:\n  source_root: " + root + "\noutput:\n  path: " + out + "\nfilter:\n  service_keywords: []\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := execute(t, "scan", "--config", cfgPath)
	if err != nil {
		t.Fatalf("scan failed: %v\nstderr: %s", err, stderr)
	}

	if !strings.Contains(stdout, "Found 1 provider configurations") {
		t.Errorf("service keywords should be disabled by config:\n%s", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("catalog not written to config path: %v", err)
	}
}

func TestScan_FlagOverridesInvalidEnvironment(t *testing.T) {
	root := buildCheckout(t)
	t.Setenv("PROVIDERSCAN_LOGGING_FORMAT", "text")

	if _, _, err := execute(t, "scan", "-s", root, "--dry-run"); err == nil {
		t.Fatal("expected invalid logging.format from the environment to fail")
	}

	_, stderr, err := execute(t, "scan", "-s", root, "--dry-run", "--log-format", "json")
	if err != nil {
		t.Fatalf("--log-format should override the environment: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stderr, `"msg":"scan complete"`) {
		t.Errorf("expected json logs on stderr:\n%s", stderr)
	}
}

func TestScan_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	_, stderr, err := execute(t, "scan", "-s", missing, "-o", filepath.Join(t.TempDir(), "x.json"))
	if !errors.Is(err, scanner.ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
	if !strings.Contains(stderr, "scan failed") {
		t.Errorf("expected error log on stderr:\n%s", stderr)
	}
}

func TestScan_InvalidFlags(t *testing.T) {
	root := buildCheckout(t)

	tests := []struct {
		name string
		args []string
	}{
		{"log level", []string{"--log-level", "loud"}},
		{"log format", []string{"--log-format", "xml"}},
		{"exclude pattern", []string{"--exclude", "[unclosed"}},
		{"missing config", []string{"--config", filepath.Join(root, "missing.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"scan", "-s", root, "--dry-run"}, tt.args...)
			if _, _, err := execute(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRules(t *testing.T) {
	stdout, _, err := execute(t, "rules")
	if err != nil {
		t.Fatal(err)
	}

	for i, r := range extraction.DefaultRules() {
		if !strings.Contains(stdout, r.Name) {
			t.Errorf("rule %d (%s) missing from listing", i, r.Name)
		}
	}
}

func TestRules_JSON(t *testing.T) {
	stdout, _, err := execute(t, "rules", "--json")
	if err != nil {
		t.Fatal(err)
	}

	var rules []extraction.Rule
	if err := json.Unmarshal([]byte(stdout), &rules); err != nil {
		t.Fatalf("decoding rules: %v\n%s", err, stdout)
	}
	if len(rules) != len(extraction.DefaultRules()) {
		t.Errorf("expected %d rules, got %d", len(extraction.DefaultRules()), len(rules))
	}
}

func TestValidate(t *testing.T) {
	root := buildCheckout(t)
	out := filepath.Join(t.TempDir(), "providers.json")
	if _, _, err := execute(t, "scan", "-s", root, "-o", out); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "validate", out)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(stdout, "2 records (1 credentials, 1 nodes)") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestValidate_ConfiguredPath(t *testing.T) {
	root := buildCheckout(t)
	out := filepath.Join(t.TempDir(), "env-providers.json")
	if _, _, err := execute(t, "scan", "-s", root, "-o", out); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PROVIDERSCAN_OUTPUT_PATH", out)
	stdout, _, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.HasPrefix(stdout, out+": 2 records") {
		t.Errorf("expected the path from the environment, got: %s", stdout)
	}
}

func TestValidate_ConfigFile(t *testing.T) {
	root := buildCheckout(t)
	dir := t.TempDir()
	if _, _, err := execute(t, "scan", "-s", root, "--output-root", dir); err != nil {
		t.Fatal(err)
	}

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("output:\n  root: "+dir+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "validate", "--config", cfgPath)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	want := filepath.Join(dir, "scripts", "n8n_providers.json")
	if !strings.HasPrefix(stdout, want+": ") {
		t.Errorf("expected %s, got: %s", want, stdout)
	}

	if _, _, err := execute(t, "validate", "--config", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"type":"node"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := execute(t, "validate", path)
	if !errors.Is(err, catalog.ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "providerscan dev") {
		t.Errorf("unexpected version output: %q", stdout)
	}
}
