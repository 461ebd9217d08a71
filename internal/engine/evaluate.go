package engine

import (
	"context"
	"fmt"

	"pwacheck/internal/artifact"
	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

// Evaluate runs every rule against tree, in order, and builds the report.
//
// Missing and malformed artifacts, and panicking rules, become failed
// findings. Only failures of the checker itself (an *artifact.IOError or
// context cancellation) abort the run and are returned as errors.
func Evaluate(ctx context.Context, rs []rules.Rule, layout artifact.Layout, tree artifact.Tree) (*report.Report, error) {
	return evaluate(ctx, rs, layout, tree, nil)
}

// evaluate is Evaluate with a hook that observes each finding as soon as
// it is produced.
func evaluate(ctx context.Context, rs []rules.Rule, layout artifact.Layout, tree artifact.Tree, onFinding func(rules.Finding)) (*report.Report, error) {
	findings := make([]rules.Finding, 0, len(rs))
	for _, r := range rs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := evaluateRule(ctx, r, layout, tree)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
		if onFinding != nil {
			onFinding(f)
		}
	}
	return report.New(tree.Root(), findings), nil
}

func evaluateRule(ctx context.Context, r rules.Rule, layout artifact.Layout, tree artifact.Tree) (f rules.Finding, err error) {
	tracked := artifact.NewTrackingTree(tree)

	defer func() {
		if p := recover(); p != nil {
			f = stamp(rules.FailFinding(r, fmt.Sprintf("rule panicked: %v", p)), r, tracked)
			err = nil
		}
	}()

	f, err = r.Evaluate(ctx, layout, tracked)
	if err != nil {
		if !artifact.IsConformanceError(err) {
			return rules.Finding{}, fmt.Errorf("rule %s: %w", r.ID(), err)
		}
		// Rules normally map these themselves; keep the contract for any
		// that return them.
		f, err = rules.PrerequisiteFinding(r, err)
		if err != nil {
			return rules.Finding{}, fmt.Errorf("rule %s: %w", r.ID(), err)
		}
	}
	return stamp(f, r, tracked), nil
}

// stamp backfills identifiers so output stays consistent no matter how the
// rule built its finding.
func stamp(f rules.Finding, r rules.Rule, tracked *artifact.TrackingTree) rules.Finding {
	f.RuleID = r.ID()
	if f.Title == "" {
		f.Title = r.Title()
	}
	f.Severity = r.Severity()
	f.Artifacts = tracked.Accessed()
	return f
}
