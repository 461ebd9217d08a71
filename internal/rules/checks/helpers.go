package checks

import (
	"context"
	"path"
	"regexp"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/manifest"
)

var (
	commentPattern   = regexp.MustCompile(`(?s)<!--.*?-->`)
	linkTagPattern   = regexp.MustCompile(`(?is)<link\b[^>]*>`)
	metaTagPattern   = regexp.MustCompile(`(?is)<meta\b[^>]*>`)
	attributePattern = regexp.MustCompile(`(?is)([a-z_:][-a-z0-9_:.]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
)

// readEntry returns the entry page with HTML comments removed, so that
// commented-out tags do not satisfy a check.
func readEntry(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (string, error) {
	text, err := artifact.ReadText(ctx, tree, layout.Entry)
	if err != nil {
		return "", err
	}
	return commentPattern.ReplaceAllString(text, ""), nil
}

func loadManifest(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (*manifest.Manifest, error) {
	return manifest.Load(ctx, tree, layout.Manifest)
}

// tagAttributes returns the lower-cased attribute maps of every tag matched
// by pattern.
func tagAttributes(pattern *regexp.Regexp, html string) []map[string]string {
	var out []map[string]string
	for _, tag := range pattern.FindAllString(html, -1) {
		attrs := make(map[string]string)
		for _, m := range attributePattern.FindAllStringSubmatch(tag, -1) {
			name := strings.ToLower(m[1])
			if _, dup := attrs[name]; dup {
				continue
			}
			attrs[name] = m[2] + m[3] + m[4]
		}
		out = append(out, attrs)
	}
	return out
}

// metaContent returns the content of the first <meta name=...> tag with the
// given name, and whether such a tag exists.
func metaContent(html, name string) (string, bool) {
	for _, attrs := range tagAttributes(metaTagPattern, html) {
		if strings.EqualFold(strings.TrimSpace(attrs["name"]), name) {
			return strings.TrimSpace(attrs["content"]), true
		}
	}
	return "", false
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(strings.ToLower(list)) {
		if f == token {
			return true
		}
	}
	return false
}

// hrefBase strips query, fragment and directories from a URL reference.
func hrefBase(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	return path.Base(strings.TrimSpace(href))
}

// splitList splits an option value on commas and whitespace.
func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func listOption(opts map[string]string, name string, def []string) []string {
	v, ok := opts[name]
	if !ok || strings.TrimSpace(v) == "" {
		return append([]string(nil), def...)
	}
	return splitList(v)
}

func missingFrom(want []string, have map[string]bool) []string {
	var missing []string
	for _, w := range want {
		if !have[w] {
			missing = append(missing, w)
		}
	}
	return missing
}
