package checks

import (
	"context"
	"fmt"
	"path"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

var defaultIconSizes = []string{"16", "32", "72", "96", "128", "144", "152", "192", "384", "512"}

type IconsSizeSetRule struct {
	sizes []string
}

func (r *IconsSizeSetRule) ID() string {
	return "icons.size_set"
}

func (r *IconsSizeSetRule) Title() string {
	return "Icon files exist for every required size"
}

func (r *IconsSizeSetRule) Description() string {
	return "Verifies that the icons directory holds icon-<W>x<H>.<ext> for each size in the required list, covering favicons, Android, iOS and Windows tiles."
}

func (r *IconsSizeSetRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *IconsSizeSetRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "sizes",
			Description: "Comma-separated list of required icon sizes (\"192\" is shorthand for \"192x192\").",
			Default:     strings.Join(defaultIconSizes, ","),
		},
	}
}

func (r *IconsSizeSetRule) Configure(opts map[string]string) error {
	r.sizes = nil
	for _, s := range listOption(opts, "sizes", defaultIconSizes) {
		size := normalizeSize(s)
		w, h, ok := strings.Cut(size, "x")
		if !ok || w == "" || h == "" {
			return fmt.Errorf("invalid icon size %q", s)
		}
		r.sizes = append(r.sizes, size)
	}
	return nil
}

func (r *IconsSizeSetRule) requiredSizes() []string {
	if len(r.sizes) > 0 {
		return r.sizes
	}
	out := make([]string, 0, len(defaultIconSizes))
	for _, s := range defaultIconSizes {
		out = append(out, normalizeSize(s))
	}
	return out
}

func (r *IconsSizeSetRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	// One listing of the icons directory answers every size.
	matches, err := tree.Glob(ctx, path.Join(layout.IconsDir, "icon-*x*.*"))
	if err != nil {
		return rules.Finding{}, err
	}
	present := make(map[string]bool, len(matches))
	for _, m := range matches {
		present[m] = true
	}

	sizes := r.requiredSizes()
	have := make(map[string]bool, len(sizes))
	for _, size := range sizes {
		for _, ext := range layout.IconExtensions {
			name := path.Join(layout.IconsDir, fmt.Sprintf("icon-%s.%s", size, strings.TrimPrefix(ext, ".")))
			if present[name] {
				have[size] = true
				break
			}
		}
	}

	missing := missingFrom(sizes, have)
	if len(missing) > 0 {
		return rules.FailFindingWithMetadata(r, fmt.Sprintf("missing %d of %d icon sizes in %s: %s", len(missing), len(sizes), layout.IconsDir, strings.Join(missing, ", ")), map[string]any{
			"missing": missing,
		}), nil
	}
	return rules.PassFinding(r, fmt.Sprintf("all %d icon sizes present in %s", len(sizes), layout.IconsDir)), nil
}
