package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"pwacheck/internal/flags"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if cfg.Target.Root != "build/web" {
		t.Fatalf("default root: got %q", cfg.Target.Root)
	}
	if cfg.Runtime.Timeout != time.Minute {
		t.Fatalf("default timeout: got %v", cfg.Runtime.Timeout)
	}
}

func TestValidate_NormalizesCommaDelimitedLists(t *testing.T) {
	cfg := New()
	cfg.Output.ConsoleFilterStatus = []string{"fail, warn", ",,"}
	cfg.Output.Emit = []string{"NDJSON"}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
	if want := []string{"FAIL", "WARN"}; !reflect.DeepEqual(cfg.Output.ConsoleFilterStatus, want) {
		t.Fatalf("ConsoleFilterStatus: got %v want %v", cfg.Output.ConsoleFilterStatus, want)
	}
	if want := []string{"ndjson"}; !reflect.DeepEqual(cfg.Output.Emit, want) {
		t.Fatalf("Emit: got %v want %v", cfg.Output.Emit, want)
	}
}

func TestParseRuleOptionAssignments(t *testing.T) {
	got, err := ParseRuleOptionAssignments([]string{
		"manifest.icon_sizes.sizes=192x192,512x512, icons.size_set.severity=required",
		"favicon.exists.waive=", // empty value allowed
		"entry.theme_color_tag.waive=branding handled by CDN",
	})
	if err != nil {
		t.Fatalf("ParseRuleOptionAssignments returned error: %v", err)
	}
	want := map[string]map[string]string{
		"manifest.icon_sizes":   {"sizes": "192x192,512x512"},
		"icons.size_set":        {"severity": "required"},
		"favicon.exists":        {"waive": ""},
		"entry.theme_color_tag": {"waive": "branding handled by CDN"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseRuleOptionAssignments_ErrorsOnInvalidSyntax(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{name: "missing_equals", values: []string{"a.b"}},
		{name: "missing_equals_in_second_value", values: []string{"a.b=1", "c.d"}},
		{name: "missing_dot", values: []string{"ab=true"}},
		{name: "empty_rule", values: []string{".b=true"}},
		{name: "empty_opt", values: []string{"a.=true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRuleOptionAssignments(tt.values); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"invalid set syntax", func(c *Config) { c.Rules.Set = []string{"nope"} }},
		{"empty console format", func(c *Config) { c.Output.ConsoleFormat = "  " }},
		{"unknown console format", func(c *Config) { c.Output.ConsoleFormat = "yaml" }},
		{"unknown filter status", func(c *Config) { c.Output.ConsoleFilterStatus = []string{"ERROR"} }},
		{"unknown emit", func(c *Config) { c.Output.Emit = []string{"xml"} }},
		{"out without extension", func(c *Config) { c.Output.Out = "report" }},
		{"out unknown extension", func(c *Config) { c.Output.Out = "report.xml" }},
		{"out unknown format", func(c *Config) { c.Output.Out = "report"; c.Output.OutFormat = "xml" }},
		{"zero timeout", func(c *Config) { c.Runtime.Timeout = 0 }},
		{"negative debounce", func(c *Config) { c.Runtime.Debounce = -time.Second }},
		{"ref without github", func(c *Config) { c.Target.Ref = "main" }},
		{"bad github repo", func(c *Config) { c.Target.GitHub = "acme" }},
		{"watch with github", func(c *Config) { c.Target.GitHub = "acme/app"; c.Runtime.Watch = true }},
		{"verbose with quiet", func(c *Config) { c.Runtime.Verbose = true; c.Runtime.Quiet = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestValidate_InfersOutFormat(t *testing.T) {
	tests := map[string]string{
		"out/report.json":   "json",
		"out/report.ndjson": "ndjson",
		"out/report.jsonl":  "ndjson",
		"out/report.txt":    "text",
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			cfg := New()
			cfg.Output.Out = path
			if err := cfg.Validate(); err != nil {
				t.Fatalf("Validate() returned error: %v", err)
			}
			if cfg.Output.OutFormat != want {
				t.Fatalf("got %q want %q", cfg.Output.OutFormat, want)
			}
		})
	}
}

func TestValidate_NormalizesGitHubRepo(t *testing.T) {
	for _, in := range []string{"acme/shop", "https://github.com/acme/shop", "github.com/acme/shop.git", "https://www.github.com/acme/shop/"} {
		cfg := New()
		cfg.Target.GitHub = in
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate(%q) returned error: %v", in, err)
		}
		if cfg.Target.GitHub != "acme/shop" {
			t.Fatalf("Validate(%q): got %q", in, cfg.Target.GitHub)
		}
	}
}

func TestLayout_Overrides(t *testing.T) {
	cfg := New()
	cfg.Target.Manifest = "site.webmanifest"
	cfg.Target.IconsDir = "assets/icons/"

	l := cfg.Layout()
	if l.Manifest != "site.webmanifest" || l.IconsDir != "assets/icons" || l.Entry != "index.html" {
		t.Fatalf("unexpected layout: %+v", l)
	}
}

func TestRuleOptions_SetWinsOverFile(t *testing.T) {
	cfg := New()
	cfg.Rules.Options = map[string]map[string]string{
		"icons.size_set": {"sizes": "192,512", "severity": "required"},
	}
	cfg.Rules.Set = []string{"icons.size_set.sizes=512"}

	got, err := cfg.RuleOptions()
	if err != nil {
		t.Fatalf("RuleOptions() returned error: %v", err)
	}
	want := map[string]string{"sizes": "512", "severity": "required"}
	if !reflect.DeepEqual(got["icons.size_set"], want) {
		t.Fatalf("got %v want %v", got["icons.size_set"], want)
	}
	if cfg.Rules.Options["icons.size_set"]["sizes"] != "192,512" {
		t.Fatalf("RuleOptions must not mutate the file options")
	}
}

func TestApplyFile_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pwacheck.yaml")
	content := `target:
  root: web/dist
  manifest: app.webmanifest
rules:
  selector: "manifest.*"
  set:
    - icons.size_set.sizes=512
  options:
    favicon.exists:
      waive: served by CDN
output:
  console_format: json
  no_color: true
runtime:
  timeout: 5s
  quiet: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() returned error: %v", err)
	}

	cfg := New()
	cfg.Target.Root = "cli/root"
	cfg.Rules.Set = []string{"icons.size_set.sizes=1024"}
	changed := map[string]bool{flags.FlagRoot: true, flags.FlagSet: true}
	cfg.ApplyFile(file, func(name string) bool { return changed[name] })

	if cfg.Target.Root != "cli/root" {
		t.Fatalf("flag must win: root %q", cfg.Target.Root)
	}
	if cfg.Target.Manifest != "app.webmanifest" || cfg.Rules.Selector != "manifest.*" {
		t.Fatalf("file values not applied: %+v", cfg.Target)
	}
	if cfg.Output.ConsoleFormat != "json" || !cfg.Output.NoColor || cfg.Runtime.Timeout != 5*time.Second || !cfg.Runtime.Quiet {
		t.Fatalf("file values not applied: %+v %+v", cfg.Output, cfg.Runtime)
	}

	opts, err := cfg.RuleOptions()
	if err != nil {
		t.Fatalf("RuleOptions() returned error: %v", err)
	}
	if opts["icons.size_set"]["sizes"] != "1024" {
		t.Fatalf("CLI --set must win: %v", opts)
	}
	if opts["favicon.exists"]["waive"] != "served by CDN" {
		t.Fatalf("file options missing: %v", opts)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(dir, "typo.yaml")
	if err := os.WriteFile(path, []byte("target:\n  roots: x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFile(empty); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("PWACHECK_TEST_TOKEN=from-file\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PWACHECK_TEST_TOKEN", "")
	os.Unsetenv("PWACHECK_TEST_TOKEN")

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv() returned error: %v", err)
	}
	if got := os.Getenv("PWACHECK_TEST_TOKEN"); got != "from-file" {
		t.Fatalf("got %q", got)
	}
	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for explicit missing file")
	}
}
