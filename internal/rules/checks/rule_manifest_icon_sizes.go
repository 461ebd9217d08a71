package checks

import (
	"context"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

var defaultManifestIconSizes = []string{"192x192", "512x512"}

type ManifestIconSizesRule struct {
	sizes []string
}

func (r *ManifestIconSizesRule) ID() string {
	return "manifest.icon_sizes"
}

func (r *ManifestIconSizesRule) Title() string {
	return "Web app manifest declares the installable icon sizes"
}

func (r *ManifestIconSizesRule) Description() string {
	return "Verifies that the manifest icons include each required size token. Chromium requires 192x192 and 512x512 icons for installation and the splash screen."
}

func (r *ManifestIconSizesRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *ManifestIconSizesRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "sizes",
			Description: "Comma-separated list of size tokens the icons list must include.",
			Default:     strings.Join(defaultManifestIconSizes, ","),
		},
	}
}

func (r *ManifestIconSizesRule) Configure(opts map[string]string) error {
	r.sizes = nil
	for _, s := range listOption(opts, "sizes", defaultManifestIconSizes) {
		r.sizes = append(r.sizes, normalizeSize(s))
	}
	return nil
}

func (r *ManifestIconSizesRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	m, err := loadManifest(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	want := r.sizes
	if len(want) == 0 {
		want = defaultManifestIconSizes
	}
	have := make(map[string]bool)
	for _, tok := range m.SizeTokens() {
		have[tok] = true
	}
	missing := missingFrom(want, have)
	if len(missing) > 0 {
		return rules.FailFindingWithMetadata(r, "icons missing sizes: "+strings.Join(missing, ", "), map[string]any{
			"missing": missing,
		}), nil
	}
	return rules.PassFinding(r, "icons include "+strings.Join(want, ", ")), nil
}

// normalizeSize accepts "192" as shorthand for "192x192".
func normalizeSize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s != "" && !strings.Contains(s, "x") {
		return s + "x" + s
	}
	return s
}
