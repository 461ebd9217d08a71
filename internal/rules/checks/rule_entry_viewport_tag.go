package checks

import (
	"context"
	"fmt"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type EntryViewportTagRule struct{}

func (r *EntryViewportTagRule) ID() string {
	return "entry.viewport_tag"
}

func (r *EntryViewportTagRule) Title() string {
	return "Entry page declares a responsive viewport"
}

func (r *EntryViewportTagRule) Description() string {
	return "Verifies that the entry page has a <meta name=\"viewport\"> tag whose content includes width=device-width."
}

func (r *EntryViewportTagRule) Severity() rules.Severity {
	return rules.SeverityRequired
}

func (r *EntryViewportTagRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	html, err := readEntry(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	content, ok := metaContent(html, "viewport")
	if !ok {
		return rules.FailFinding(r, fmt.Sprintf("no <meta name=\"viewport\"> tag in %s", layout.Entry)), nil
	}
	normalized := strings.ToLower(strings.ReplaceAll(content, " ", ""))
	if !strings.Contains(normalized, "width=device-width") {
		return rules.FailFinding(r, fmt.Sprintf("viewport content %q lacks width=device-width", content)), nil
	}
	return rules.PassFinding(r, "viewport: "+content), nil
}
