package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"pwacheck/internal/config"
	"pwacheck/internal/engine"
	"pwacheck/internal/flags"
	"pwacheck/internal/logging"
	"pwacheck/internal/report"
	"pwacheck/internal/watch"
)

const checkHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	With --github, pwacheck reads the build through the GitHub API.

	Token sources (in order):
	1) GITHUB_TOKEN environment variable
	2) GH_TOKEN environment variable
	3) GitHub CLI (gh) authentication via gh auth token (if gh is installed and logged in)

	Public repositories work without a token, at a lower rate limit.
	Variables can also come from a dotenv file (--env-file, default .env when present).

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

const checkLong = `Check a Flutter web build and report PWA conformance.

Each rule yields one finding: passed, warning (a recommended rule failed) or
error (a required rule failed). Missing or malformed artifacts are findings,
not crashes.

Configuration:
	Flags can also be set in a YAML file (--config, default .pwacheck.yaml when
	present). Flags given on the command line win over the file.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write the JSON report, an NDJSON stream or the text report to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown report
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line with a "type" field
	(run.started, rule.result, run.finished). Rule results carry a nested
	"finding" object.

Exit codes:
	0 = no required rule failed (warnings allowed)
	1 = at least one required rule failed
	2 = the check could not run (bad configuration, unreadable root, output failure)

Examples:
	# Check the default build directory
	pwacheck check

	# Treat the service worker rules as required
	pwacheck check --set service_worker.exists.severity=required \
		--set service_worker.lifecycle_handlers.severity=required

	# AI Agent: stream machine-readable events to stdout
	pwacheck check --no-console --emit ndjson

	# Re-run on every rebuild
	pwacheck check --watch
`

func newCheckCommand() *cobra.Command {
	cfg := config.New()
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a web build for PWA conformance",
		Long:  checkLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code := runCheck(cmd, cfg)
			if code != report.ExitOK {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
	cmd.SetHelpTemplate(checkHelpTemplate)
	bindCheckFlags(cmd.Flags(), cfg)
	return cmd
}

// bindCheckFlags registers the check flags on fs, bound to cfg.
//
// MAINTAINER NOTE: If you add/change/remove check-affecting flags here, keep
// config.ApplyFile and engine.ReproduceCommand in sync. Output flags are
// left out of the reproduce command.
func bindCheckFlags(fs *pflag.FlagSet, cfg *config.Config) {
	// Target
	fs.StringVar(&cfg.Target.Root, flags.FlagRoot, cfg.Target.Root, "Artifact root: the build directory, or a path inside the repository with --github")
	fs.StringVar(&cfg.Target.Manifest, flags.FlagManifest, "", "Manifest path relative to the root (default: manifest.json)")
	fs.StringVar(&cfg.Target.Entry, flags.FlagEntry, "", "HTML entry page relative to the root (default: index.html)")
	fs.StringVar(&cfg.Target.IconsDir, flags.FlagIconsDir, "", "Icons directory relative to the root (default: icons)")
	fs.StringVar(&cfg.Target.GitHub, flags.FlagGitHub, "", "Read the build from a GitHub repository (OWNER/REPO or URL)")
	fs.StringVar(&cfg.Target.Ref, flags.FlagRef, "", "Branch, tag or commit to read with --github (default: the default branch)")

	// Rules
	fs.StringVar(&cfg.Rules.Selector, flags.FlagRules, "", "Rule selector expression, e.g. \"manifest.*,!manifest.icon_sizes\" (empty = all rules)")
	fs.StringSliceVar(&cfg.Rules.Set, flags.FlagSet, nil, "Per-rule options as ruleID.option=value (repeatable)")

	// Output
	fs.StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|json|ndjson")
	fs.StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console findings by status (PASS, WARN, FAIL). Comma-separated.")
	fs.StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	fs.StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	fs.StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Format for --out: json|ndjson|text (default: inferred from file extension)")
	fs.StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	fs.BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")
	fs.BoolVar(&cfg.Output.NoColor, flags.FlagNoColor, false, "Disable colored output")

	// Runtime
	fs.StringVar(&cfg.Runtime.ConfigFile, flags.FlagConfig, "", "YAML config file (default: "+config.DefaultConfigFile+" when present)")
	fs.StringVar(&cfg.Runtime.EnvFile, flags.FlagEnvFile, "", "Dotenv file to load (default: "+config.DefaultEnvFile+" when present)")
	fs.DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Timeout for one check run")
	fs.BoolVar(&cfg.Runtime.Watch, flags.FlagWatch, false, "Re-run the check whenever files under the root change")
	fs.DurationVar(&cfg.Runtime.Debounce, flags.FlagDebounce, cfg.Runtime.Debounce, "Quiet period before a --watch re-run")
	fs.BoolVarP(&cfg.Runtime.Verbose, flags.FlagVerbose, "v", false, "Enable debug logging on stderr")
	fs.BoolVarP(&cfg.Runtime.Quiet, flags.FlagQuiet, "q", false, "Only log warnings and errors on stderr")
}

// loadConfig merges the env file and config file into cfg and validates it.
func loadConfig(cmd *cobra.Command, cfg *config.Config) error {
	if err := config.LoadEnv(cfg.Runtime.EnvFile); err != nil {
		return err
	}
	path, err := config.ResolveFile(cfg.Runtime.ConfigFile)
	if err != nil {
		return err
	}
	if path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		cfg.ApplyFile(file, cmd.Flags().Changed)
	}
	return cfg.Validate()
}

func runCheck(cmd *cobra.Command, cfg *config.Config) int {
	if err := loadConfig(cmd, cfg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		return report.ExitInfrastructure
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.Options{Verbose: cfg.Runtime.Verbose, Quiet: cfg.Runtime.Quiet})
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	eng := engine.NewEngine(logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
	code := eng.Run(ctx, cfg)
	if !cfg.Runtime.Watch {
		return code
	}

	w, err := watch.New(cfg.Target.Root, cfg.Runtime.Debounce, logger)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: cannot watch %s: %v\n", cfg.Target.Root, err)
		return report.ExitInfrastructure
	}
	defer w.Close()

	logger.Info("watching for changes", zap.String("root", cfg.Target.Root), zap.Duration("debounce", cfg.Runtime.Debounce))
	err = w.Run(ctx, func(ctx context.Context, changed []string) {
		logger.Info("change detected; re-running check", zap.Strings("changed", changed))
		code = eng.Run(ctx, cfg)
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		return report.ExitInfrastructure
	}
	return code
}
