package checks

import (
	"context"
	"fmt"
	"path"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type EntryManifestLinkedRule struct{}

func (r *EntryManifestLinkedRule) ID() string {
	return "entry.manifest_linked"
}

func (r *EntryManifestLinkedRule) Title() string {
	return "Entry page links the web app manifest"
}

func (r *EntryManifestLinkedRule) Description() string {
	return "Verifies that the entry page has a <link rel=\"manifest\"> tag whose href names the manifest file."
}

func (r *EntryManifestLinkedRule) Severity() rules.Severity {
	return rules.SeverityRequired
}

func (r *EntryManifestLinkedRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	html, err := readEntry(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}

	want := path.Base(layout.Manifest)
	var hrefs []string
	for _, attrs := range tagAttributes(linkTagPattern, html) {
		if !hasToken(attrs["rel"], "manifest") {
			continue
		}
		href := attrs["href"]
		if hrefBase(href) == want {
			return rules.PassFinding(r, fmt.Sprintf("links %s", href)), nil
		}
		hrefs = append(hrefs, href)
	}
	if len(hrefs) > 0 {
		return rules.FailFinding(r, fmt.Sprintf("manifest link points to %q, expected %s", hrefs[0], want)), nil
	}
	return rules.FailFinding(r, fmt.Sprintf("no <link rel=\"manifest\"> tag in %s", layout.Entry)), nil
}
