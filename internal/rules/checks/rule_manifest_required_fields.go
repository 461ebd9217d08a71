package checks

import (
	"context"
	"fmt"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

var defaultManifestFields = []string{
	"name",
	"short_name",
	"start_url",
	"display",
	"icons",
	"theme_color",
	"background_color",
}

type ManifestRequiredFieldsRule struct {
	fields []string
}

func (r *ManifestRequiredFieldsRule) ID() string {
	return "manifest.required_fields"
}

func (r *ManifestRequiredFieldsRule) Title() string {
	return "Web app manifest declares the required members"
}

func (r *ManifestRequiredFieldsRule) Description() string {
	return "Verifies that the manifest carries a non-empty value for each required member. Empty strings, empty lists and null count as missing, and a member of the wrong JSON type is reported as invalid."
}

func (r *ManifestRequiredFieldsRule) Severity() rules.Severity {
	return rules.SeverityRequired
}

func (r *ManifestRequiredFieldsRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "fields",
			Description: "Comma-separated list of manifest members that must be present.",
			Default:     strings.Join(defaultManifestFields, ","),
		},
	}
}

func (r *ManifestRequiredFieldsRule) Configure(opts map[string]string) error {
	r.fields = listOption(opts, "fields", defaultManifestFields)
	return nil
}

func (r *ManifestRequiredFieldsRule) requiredFields() []string {
	if len(r.fields) == 0 {
		return defaultManifestFields
	}
	return r.fields
}

func (r *ManifestRequiredFieldsRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	m, err := loadManifest(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	fields := r.requiredFields()
	missing := m.MissingFields(fields)
	invalid := m.InvalidFields(fields)
	if len(missing) == 0 && len(invalid) == 0 {
		return rules.PassFinding(r, fmt.Sprintf("all %d required fields present", len(fields))), nil
	}

	var parts []string
	metadata := make(map[string]any)
	if len(missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(missing, ", "))
		metadata["missing"] = missing
	}
	if len(invalid) > 0 {
		names := make([]string, 0, len(invalid))
		for _, e := range invalid {
			parts = append(parts, e.Error())
			names = append(names, e.Member)
		}
		metadata["invalid"] = names
	}
	return rules.FailFindingWithMetadata(r, strings.Join(parts, "; "), metadata), nil
}
