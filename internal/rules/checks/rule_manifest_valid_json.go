package checks

import (
	"context"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type ManifestValidJSONRule struct{}

func (r *ManifestValidJSONRule) ID() string {
	return "manifest.valid_json"
}

func (r *ManifestValidJSONRule) Title() string {
	return "Web app manifest is valid JSON"
}

func (r *ManifestValidJSONRule) Description() string {
	return "Verifies that the manifest parses as a JSON object and that its well-known members (name, display, icons, ...) have the expected types."
}

func (r *ManifestValidJSONRule) Severity() rules.Severity {
	return rules.SeverityRequired
}

func (r *ManifestValidJSONRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	_, err := loadManifest(ctx, layout, tree)
	switch {
	case err == nil:
		return rules.PassFinding(r, layout.Manifest+" parses as a JSON object"), nil
	case artifact.IsMalformed(err):
		return rules.FailFinding(r, err.Error()), nil
	}
	return rules.PrerequisiteFinding(r, err)
}
