package rules

import (
	"context"

	"pwacheck/internal/artifact"
)

type Rule interface {
	ID() string
	Title() string
	Description() string

	// Severity is the default severity; policy may override it.
	Severity() Severity

	// Evaluate runs the predicate against the artifact tree.
	// Missing or malformed artifacts MUST be reported as a failed Finding.
	// A non-nil error means the checker cannot operate (e.g. permission
	// denied) and aborts the run.
	Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (Finding, error)
}

type Option struct {
	Name        string
	Description string
	Default     string
}

type ConfigurableRule interface {
	Rule
	Options() []Option
	// Configure applies options; absent keys reset to their defaults.
	Configure(opts map[string]string) error
}
