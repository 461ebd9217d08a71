package flags

// Package flags defines canonical CLI flag names shared across the CLI,
// config-file merging and the reproduce command in reports.
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Target.Root, flags.FlagRoot, "", "...")
//	arg := "--" + flags.FlagRoot
const (
	// Target
	FlagRoot     = "root"
	FlagManifest = "manifest"
	FlagEntry    = "entry"
	FlagIconsDir = "icons-dir"
	FlagGitHub   = "github"
	FlagRef      = "ref"

	// Rules
	FlagRules = "rules"
	FlagSet   = "set"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagReport              = "report"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"
	FlagNoColor             = "no-color"

	// Runtime
	FlagConfig   = "config"
	FlagEnvFile  = "env-file"
	FlagTimeout  = "timeout"
	FlagWatch    = "watch"
	FlagDebounce = "debounce"
	FlagVerbose  = "verbose"
	FlagQuiet    = "quiet"
)
