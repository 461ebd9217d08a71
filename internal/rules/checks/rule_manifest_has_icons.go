package checks

import (
	"context"
	"fmt"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type ManifestHasIconsRule struct{}

func (r *ManifestHasIconsRule) ID() string {
	return "manifest.has_icons"
}

func (r *ManifestHasIconsRule) Title() string {
	return "Web app manifest declares at least one icon"
}

func (r *ManifestHasIconsRule) Description() string {
	return "Verifies that the manifest icons list is non-empty."
}

func (r *ManifestHasIconsRule) Severity() rules.Severity {
	return rules.SeverityRequired
}

func (r *ManifestHasIconsRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	m, err := loadManifest(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	if e := m.InvalidMember("icons"); e != nil {
		return rules.FailFinding(r, e.Error()), nil
	}
	if len(m.Icons) == 0 {
		if len(m.Invalid) > 0 {
			return rules.FailFinding(r, "no usable icons: "+m.Invalid[0].Error()), nil
		}
		return rules.FailFinding(r, "manifest icons list is empty"), nil
	}
	return rules.PassFinding(r, fmt.Sprintf("%d icons declared", len(m.Icons))), nil
}
