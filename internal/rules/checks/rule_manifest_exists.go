package checks

import (
	"context"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type ManifestExistsRule struct{}

func (r *ManifestExistsRule) ID() string {
	return "manifest.exists"
}

func (r *ManifestExistsRule) Title() string {
	return "Web app manifest is present"
}

func (r *ManifestExistsRule) Description() string {
	return "Verifies that the web app manifest (manifest.json in a Flutter web build) exists at the configured path. Browsers refuse to install a PWA without one."
}

func (r *ManifestExistsRule) Severity() rules.Severity {
	return rules.SeverityRequired
}

func (r *ManifestExistsRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	ok, err := tree.Exists(ctx, layout.Manifest)
	if err != nil {
		return rules.Finding{}, err
	}
	if !ok {
		return rules.FailFinding(r, layout.Manifest+" not found"), nil
	}
	return rules.PassFinding(r, layout.Manifest+" present"), nil
}
