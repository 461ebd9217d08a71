package checks

import (
	"context"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type FaviconExistsRule struct{}

func (r *FaviconExistsRule) ID() string {
	return "favicon.exists"
}

func (r *FaviconExistsRule) Title() string {
	return "Favicon is present"
}

func (r *FaviconExistsRule) Description() string {
	return "Verifies that a favicon (favicon.png, favicon.ico or favicon.svg) exists at the root."
}

func (r *FaviconExistsRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *FaviconExistsRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	found, ok, err := artifact.FirstExisting(ctx, tree, layout.Favicons)
	if err != nil {
		return rules.Finding{}, err
	}
	if !ok {
		return rules.FailFinding(r, "no favicon found (looked for "+strings.Join(layout.Favicons, ", ")+")"), nil
	}
	return rules.PassFinding(r, found+" present"), nil
}
