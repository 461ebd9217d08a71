package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pwacheck/internal/artifact"
	"pwacheck/internal/flags"
)

const (
	// DefaultRoot is the Flutter web build output directory.
	DefaultRoot = "build/web"
	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = ".pwacheck.yaml"
	// DefaultEnvFile is loaded from the working directory when present.
	DefaultEnvFile = ".env"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields that affect
	// check behavior, keep these in sync:
	// - CLI flags in internal/cli/check.go
	// - ApplyFile in this package
	// - the reproduce command in internal/engine/command.go
	Target  Target  `yaml:"target"`
	Rules   Rules   `yaml:"rules"`
	Output  Output  `yaml:"output"`
	Runtime Runtime `yaml:"runtime"`
}

type Target struct {
	// Root is the artifact root: a directory, or a path inside the GitHub
	// repository when GitHub is set (see --root).
	Root string `yaml:"root"`

	// Manifest, Entry and IconsDir override the artifact paths relative to
	// Root (see --manifest, --entry, --icons-dir).
	Manifest string `yaml:"manifest"`
	Entry    string `yaml:"entry"`
	IconsDir string `yaml:"icons_dir"`

	// GitHub checks a repository through the GitHub API instead of the local
	// filesystem, as OWNER/REPO (see --github).
	GitHub string `yaml:"github"`

	// Ref is the branch, tag or commit to read with GitHub (see --ref).
	// Empty means the default branch.
	Ref string `yaml:"ref"`
}

type Rules struct {
	// Selector selects which rules to run.
	// Empty means all rules; otherwise it is a rule selector expression (see --rules).
	Selector string `yaml:"selector"`

	// Set provides per-rule option overrides from the CLI.
	// Entries are of the form ruleID.option=value (repeatable; see --set).
	Set []string `yaml:"set"`

	// Options holds per-rule options from the config file, keyed by rule ID
	// and option name. Set entries win over Options.
	Options map[string]map[string]string `yaml:"options"`
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, json, ndjson.
	ConsoleFormat string `yaml:"console_format"`

	// ConsoleFilterStatus filters console findings by status (see --console-filter-status).
	// Allowed values: PASS, WARN, FAIL.
	ConsoleFilterStatus []string `yaml:"console_filter_status"`

	// Report writes a Markdown report to this path (see --report).
	Report string `yaml:"report"`

	// Out writes structured output to this path (see --out).
	Out string `yaml:"out"`

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson, text. If empty, it is inferred from the --out file extension.
	OutFormat string `yaml:"out_format"`

	// Emit writes an additional structured stream to stdout (see --emit).
	// Allowed values: json, ndjson.
	Emit []string `yaml:"emit"`

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool `yaml:"no_console"`

	// NoColor disables ANSI colors in text output (see --no-color).
	NoColor bool `yaml:"no_color"`
}

type Runtime struct {
	// ConfigFile is the YAML file merged under the CLI flags (see --config).
	ConfigFile string `yaml:"-"`

	// EnvFile is a dotenv file loaded before the run (see --env-file).
	EnvFile string `yaml:"-"`

	// Timeout bounds a single check run (see --timeout). Must be > 0.
	Timeout time.Duration `yaml:"timeout"`

	// Watch re-runs the check whenever files under Root change (see --watch).
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period before a watch re-run (see --debounce).
	Debounce time.Duration `yaml:"debounce"`

	// Verbose enables debug logging on stderr (see --verbose).
	Verbose bool `yaml:"verbose"`

	// Quiet limits stderr logging to warnings and errors (see --quiet).
	Quiet bool `yaml:"quiet"`
}

func New() *Config {
	return &Config{
		Target: Target{
			Root: DefaultRoot,
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Timeout:  time.Minute,
			Debounce: 300 * time.Millisecond,
		},
	}
}

func (c *Config) Validate() error {
	// Normalize comma-delimited list inputs.
	c.Rules.Set = splitSetList(c.Rules.Set)
	c.Output.ConsoleFilterStatus = splitCommaList(c.Output.ConsoleFilterStatus)
	c.Output.Emit = splitCommaList(c.Output.Emit)

	// Target validation
	c.Target.Root = strings.TrimSpace(c.Target.Root)
	if c.Target.Root == "" {
		c.Target.Root = DefaultRoot
	}
	if c.Target.GitHub != "" {
		repo, err := normalizeRepoSelector(c.Target.GitHub)
		if err != nil {
			return fmt.Errorf("invalid --github value: %w", err)
		}
		c.Target.GitHub = repo
	} else if c.Target.Ref != "" {
		return errors.New("--ref requires --github")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, st := range c.Output.ConsoleFilterStatus {
		v := strings.ToUpper(strings.TrimSpace(st))
		if v != "PASS" && v != "WARN" && v != "FAIL" {
			return fmt.Errorf("unsupported --console-filter-status value: %s (must be one of: PASS, WARN, FAIL)", st)
		}
		c.Output.ConsoleFilterStatus[i] = v
	}

	for i, emit := range c.Output.Emit {
		v := normalizeEnumValue(emit)
		if v != "json" && v != "ndjson" {
			return fmt.Errorf("unsupported --emit value: %s (must be one of: json, ndjson)", v)
		}
		c.Output.Emit[i] = v
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			case ".txt", ".log":
				c.Output.OutFormat = "text"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" && c.Output.OutFormat != "text" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	// Runtime validation
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	if c.Runtime.Watch && c.Target.GitHub != "" {
		return errors.New("--watch cannot be combined with --github")
	}
	if c.Runtime.Debounce < 0 {
		return errors.New("--debounce must be >= 0")
	}
	if c.Runtime.Verbose && c.Runtime.Quiet {
		return errors.New("--verbose and --quiet are mutually exclusive")
	}

	// Rule option syntax validation (rule.option=value)
	if len(c.Rules.Set) > 0 {
		if _, err := ParseRuleOptionAssignments(c.Rules.Set); err != nil {
			return err
		}
	}

	return nil
}

// Layout returns the default artifact layout with the configured overrides.
func (c *Config) Layout() artifact.Layout {
	l := artifact.DefaultLayout()
	if v := strings.TrimSpace(c.Target.Manifest); v != "" {
		l.Manifest = v
	}
	if v := strings.TrimSpace(c.Target.Entry); v != "" {
		l.Entry = v
	}
	if v := strings.TrimSpace(c.Target.IconsDir); v != "" {
		l.IconsDir = strings.TrimSuffix(v, "/")
	}
	return l
}

// RuleOptions merges the config-file options with the --set assignments.
// The result holds an entry for every rule that received any option.
func (c *Config) RuleOptions() (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for ruleID, opts := range c.Rules.Options {
		out[ruleID] = make(map[string]string, len(opts))
		for k, v := range opts {
			out[ruleID][k] = v
		}
	}
	set, err := ParseRuleOptionAssignments(c.Rules.Set)
	if err != nil {
		return nil, err
	}
	for ruleID, opts := range set {
		if _, ok := out[ruleID]; !ok {
			out[ruleID] = make(map[string]string, len(opts))
		}
		for k, v := range opts {
			out[ruleID][k] = v
		}
	}
	return out, nil
}

// ApplyFile copies values from a loaded config file into c for every flag
// the user did not set explicitly, so command-line flags always win.
func (c *Config) ApplyFile(file *Config, changed func(flag string) bool) {
	if file == nil {
		return
	}
	str := func(flag string, dst *string, v string) {
		if !changed(flag) && v != "" {
			*dst = v
		}
	}
	list := func(flag string, dst *[]string, v []string) {
		if !changed(flag) && len(v) > 0 {
			*dst = append([]string(nil), v...)
		}
	}
	boolean := func(flag string, dst *bool, v bool) {
		if !changed(flag) && v {
			*dst = true
		}
	}
	duration := func(flag string, dst *time.Duration, v time.Duration) {
		if !changed(flag) && v != 0 {
			*dst = v
		}
	}

	str(flags.FlagRoot, &c.Target.Root, file.Target.Root)
	str(flags.FlagManifest, &c.Target.Manifest, file.Target.Manifest)
	str(flags.FlagEntry, &c.Target.Entry, file.Target.Entry)
	str(flags.FlagIconsDir, &c.Target.IconsDir, file.Target.IconsDir)
	str(flags.FlagGitHub, &c.Target.GitHub, file.Target.GitHub)
	str(flags.FlagRef, &c.Target.Ref, file.Target.Ref)

	str(flags.FlagRules, &c.Rules.Selector, file.Rules.Selector)
	if len(file.Rules.Set) > 0 {
		// File entries go first so repeated CLI assignments override them.
		c.Rules.Set = append(append([]string(nil), file.Rules.Set...), c.Rules.Set...)
	}
	if len(file.Rules.Options) > 0 {
		c.Rules.Options = file.Rules.Options
	}

	str(flags.FlagConsoleFormat, &c.Output.ConsoleFormat, file.Output.ConsoleFormat)
	list(flags.FlagConsoleFilterStatus, &c.Output.ConsoleFilterStatus, file.Output.ConsoleFilterStatus)
	str(flags.FlagReport, &c.Output.Report, file.Output.Report)
	str(flags.FlagOut, &c.Output.Out, file.Output.Out)
	str(flags.FlagOutFormat, &c.Output.OutFormat, file.Output.OutFormat)
	list(flags.FlagEmit, &c.Output.Emit, file.Output.Emit)
	boolean(flags.FlagNoConsole, &c.Output.NoConsole, file.Output.NoConsole)
	boolean(flags.FlagNoColor, &c.Output.NoColor, file.Output.NoColor)

	duration(flags.FlagTimeout, &c.Runtime.Timeout, file.Runtime.Timeout)
	boolean(flags.FlagWatch, &c.Runtime.Watch, file.Runtime.Watch)
	duration(flags.FlagDebounce, &c.Runtime.Debounce, file.Runtime.Debounce)
	boolean(flags.FlagVerbose, &c.Runtime.Verbose, file.Runtime.Verbose)
	boolean(flags.FlagQuiet, &c.Runtime.Quiet, file.Runtime.Quiet)
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// normalizeRepoSelector accepts OWNER/REPO or a github.com URL.
func normalizeRepoSelector(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, prefix := range []string{"https://", "http://"} {
		raw = strings.TrimPrefix(raw, prefix)
	}
	raw = strings.TrimPrefix(raw, "www.")
	raw = strings.TrimPrefix(raw, "github.com/")
	raw = strings.TrimSuffix(strings.TrimSuffix(raw, "/"), ".git")

	owner, repo, ok := strings.Cut(raw, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", fmt.Errorf("%q: expected OWNER/REPO", raw)
	}
	return owner + "/" + repo, nil
}

// ParseRuleOptionAssignments parses values of the form "ruleID.option=value".
//
// Notes:
//   - Rule IDs contain dots, so the option name is the text after the last
//     dot before "=".
//   - Values may contain commas ("manifest.icon_sizes.sizes=192,512").
//   - This validates syntax only (no validation of rule IDs or option names).
//   - Empty values are allowed ("rule.option=").
func ParseRuleOptionAssignments(values []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string)
	for _, raw := range splitSetList(values) {
		left, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
		}
		left = strings.TrimSpace(left)
		value = strings.TrimSpace(value)
		i := strings.LastIndex(left, ".")
		if i < 0 {
			return nil, fmt.Errorf("invalid --set entry %q: expected rule.option=value", raw)
		}
		ruleID := strings.TrimSpace(left[:i])
		opt := strings.TrimSpace(left[i+1:])
		if ruleID == "" || opt == "" {
			return nil, fmt.Errorf("invalid --set entry %q: expected non-empty rule and option", raw)
		}
		if _, ok := out[ruleID]; !ok {
			out[ruleID] = make(map[string]string)
		}
		out[ruleID][opt] = value
	}
	return out, nil
}

// splitSetList splits comma-delimited --set values. Within one value, a part
// without "=" continues the previous assignment's list value.
func splitSetList(values []string) []string {
	var out []string
	for _, v := range values {
		start := len(out)
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			if !strings.Contains(p, "=") && len(out) > start {
				out[len(out)-1] += "," + p
				continue
			}
			out = append(out, p)
		}
	}
	return out
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
