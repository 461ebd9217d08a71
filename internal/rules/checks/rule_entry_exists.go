package checks

import (
	"context"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type EntryExistsRule struct{}

func (r *EntryExistsRule) ID() string {
	return "entry.exists"
}

func (r *EntryExistsRule) Title() string {
	return "HTML entry page is present"
}

func (r *EntryExistsRule) Description() string {
	return "Verifies that the HTML entry page (index.html) exists at the configured path."
}

func (r *EntryExistsRule) Severity() rules.Severity {
	return rules.SeverityRequired
}

func (r *EntryExistsRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	ok, err := tree.Exists(ctx, layout.Entry)
	if err != nil {
		return rules.Finding{}, err
	}
	if !ok {
		return rules.FailFinding(r, layout.Entry+" not found"), nil
	}
	return rules.PassFinding(r, layout.Entry+" present"), nil
}
