package checks

import (
	"context"
	"fmt"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type EntryThemeColorTagRule struct{}

func (r *EntryThemeColorTagRule) ID() string {
	return "entry.theme_color_tag"
}

func (r *EntryThemeColorTagRule) Title() string {
	return "Entry page declares a theme color"
}

func (r *EntryThemeColorTagRule) Description() string {
	return "Verifies that the entry page has a <meta name=\"theme-color\"> tag with a non-empty content attribute."
}

func (r *EntryThemeColorTagRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *EntryThemeColorTagRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	html, err := readEntry(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	content, ok := metaContent(html, "theme-color")
	if !ok {
		return rules.FailFinding(r, fmt.Sprintf("no <meta name=\"theme-color\"> tag in %s", layout.Entry)), nil
	}
	if content == "" {
		return rules.FailFinding(r, "theme-color meta tag has an empty content attribute"), nil
	}
	return rules.PassFinding(r, "theme-color: "+content), nil
}
