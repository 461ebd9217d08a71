package checks

import (
	"context"
	"fmt"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

var defaultInstallableDisplays = []string{"standalone", "fullscreen", "minimal-ui"}

type ManifestInstallableDisplayRule struct {
	modes []string
}

func (r *ManifestInstallableDisplayRule) ID() string {
	return "manifest.installable_display"
}

func (r *ManifestInstallableDisplayRule) Title() string {
	return "Web app manifest uses an installable display mode"
}

func (r *ManifestInstallableDisplayRule) Description() string {
	return "Verifies that the manifest display member is one of the modes browsers accept for installation. \"browser\" opens the app in a normal tab."
}

func (r *ManifestInstallableDisplayRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *ManifestInstallableDisplayRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "modes",
			Description: "Comma-separated list of accepted display modes.",
			Default:     strings.Join(defaultInstallableDisplays, ","),
		},
	}
}

func (r *ManifestInstallableDisplayRule) Configure(opts map[string]string) error {
	r.modes = listOption(opts, "modes", defaultInstallableDisplays)
	return nil
}

func (r *ManifestInstallableDisplayRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	m, err := loadManifest(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	modes := r.modes
	if len(modes) == 0 {
		modes = defaultInstallableDisplays
	}
	if e := m.InvalidMember("display"); e != nil {
		return rules.FailFinding(r, e.Error()), nil
	}
	display := strings.ToLower(strings.TrimSpace(m.Display))
	if display == "" {
		return rules.FailFinding(r, "display is not set (want one of: "+strings.Join(modes, ", ")+")"), nil
	}
	for _, mode := range modes {
		if display == strings.ToLower(mode) {
			return rules.PassFinding(r, "display is "+display), nil
		}
	}
	return rules.FailFinding(r, fmt.Sprintf("display %q is not installable (want one of: %s)", m.Display, strings.Join(modes, ", "))), nil
}
