package artifact

// Layout names the artifacts of a Flutter web build relative to the tree root.
type Layout struct {
	// Manifest is the web app manifest (manifest.json in a Flutter build).
	Manifest string

	// Entry is the HTML entry page.
	Entry string

	// ServiceWorkers lists accepted service worker file names, in preference order.
	ServiceWorkers []string

	// IconsDir holds icons named icon-<W>x<H>.<ext>.
	IconsDir string

	// IconExtensions lists accepted icon file extensions without the dot.
	IconExtensions []string

	// Favicons lists accepted favicon file names.
	Favicons []string

	// PlatformConfigs lists platform tile and deployment descriptors. Any one
	// of them satisfies the check.
	PlatformConfigs []string
}

// DefaultLayout returns the layout produced by `flutter build web`, plus the
// descriptors of the common static hosts.
func DefaultLayout() Layout {
	return Layout{
		Manifest:       "manifest.json",
		Entry:          "index.html",
		ServiceWorkers: []string{"flutter_service_worker.js", "sw.js", "service-worker.js"},
		IconsDir:       "icons",
		IconExtensions: []string{"png"},
		Favicons:       []string{"favicon.png", "favicon.ico", "favicon.svg"},
		PlatformConfigs: []string{
			"browserconfig.xml",
			"firebase.json",
			"vercel.json",
			"netlify.toml",
			"staticwebapp.config.json",
			"_headers",
			"_redirects",
		},
	}
}

// Documents lists the files rules parse: the manifest, the entry page and
// the service worker candidates.
func (l Layout) Documents() []string {
	out := []string{l.Manifest, l.Entry}
	return append(out, l.ServiceWorkers...)
}
