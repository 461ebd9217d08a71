package checks

import (
	"context"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type PlatformConfigExistsRule struct{}

func (r *PlatformConfigExistsRule) ID() string {
	return "platform_config.exists"
}

func (r *PlatformConfigExistsRule) Title() string {
	return "Platform tile or deployment descriptor is present"
}

func (r *PlatformConfigExistsRule) Description() string {
	return "Verifies that at least one platform descriptor exists: browserconfig.xml for Windows tiles, or a hosting descriptor (firebase.json, vercel.json, netlify.toml, staticwebapp.config.json, _headers, _redirects). Contents are not inspected."
}

func (r *PlatformConfigExistsRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *PlatformConfigExistsRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	found, ok, err := artifact.FirstExisting(ctx, tree, layout.PlatformConfigs)
	if err != nil {
		return rules.Finding{}, err
	}
	if !ok {
		return rules.FailFinding(r, "no platform descriptor found (looked for "+strings.Join(layout.PlatformConfigs, ", ")+")"), nil
	}
	return rules.PassFinding(r, found+" present"), nil
}
