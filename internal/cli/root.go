package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pwacheck/internal/report"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

const rootLong = `pwacheck checks a Flutter web build for Progressive Web App conformance.

It reads the build output (manifest.json, index.html, the service worker,
icons and host configuration), evaluates a fixed catalogue of rules and
reports each as passed, warning or error. pwacheck never modifies the build.

Examples:
	# Check build/web in the current directory
	pwacheck

	# Check another build directory
	pwacheck check --root out/web

	# Check a build committed to a GitHub repository
	pwacheck check --github acme/shop --ref main --root web

	# List rules
	pwacheck rules list

	# Print build info
	pwacheck version

Output:
	Reports go to stdout; progress and diagnostics go to stderr.
	See "pwacheck check --help" for output formats and exit codes.`

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewRootCommand builds the command tree. Running the root command without a
// subcommand performs a check.
func NewRootCommand() *cobra.Command {
	root := newCheckCommand()
	root.Use = "pwacheck"
	root.Short = "Check a Flutter web build for PWA conformance"
	root.Long = rootLong
	root.SilenceErrors = true
	root.SilenceUsage = true
	root.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(newCheckCommand())
	root.AddCommand(newRulesCommand())
	root.AddCommand(newVersionCommand())
	return root
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps a command error to the process exit code, printing any
// error that is not already an exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return report.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return report.ExitInfrastructure
}
