package checks

import (
	"context"
	"strings"
	"testing"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

const testManifest = `{
  "name": "Flutter Shop",
  "short_name": "Shop",
  "start_url": ".",
  "display": "standalone",
  "background_color": "#0175C2",
  "theme_color": "#0175C2",
  "icons": [
    {"src": "icons/icon-192x192.png", "sizes": "192x192", "type": "image/png"},
    {"src": "icons/icon-512x512.png", "sizes": "512x512", "type": "image/png"}
  ]
}`

const testEntry = `<!DOCTYPE html>
<html>
<head>
  <base href="/">
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="theme-color" content="#0175C2">
  <link rel="manifest" href="manifest.json">
  <link rel="icon" type="image/png" href="favicon.png"/>
  <title>Flutter Shop</title>
</head>
<body>
  <script>
    let deferredPrompt;
    window.addEventListener('beforeinstallprompt', (e) => { e.preventDefault(); deferredPrompt = e; });
    window.addEventListener('appinstalled', () => { deferredPrompt = null; });
  </script>
  <script src="flutter_bootstrap.js" async></script>
  <script>
    if ('serviceWorker' in navigator) {
      navigator.serviceWorker.register('flutter_service_worker.js');
    }
  </script>
</body>
</html>`

const testServiceWorker = `'use strict';
self.addEventListener("install", (event) => { self.skipWaiting(); });
self.addEventListener("activate", function(event) { event.waitUntil(self.clients.claim()); });
self.addEventListener("fetch", (event) => { event.respondWith(fetch(event.request)); });
`

// conformingFiles returns a Flutter web build that satisfies every rule.
func conformingFiles() map[string]string {
	files := map[string]string{
		"manifest.json":             testManifest,
		"index.html":                testEntry,
		"flutter_service_worker.js": testServiceWorker,
		"favicon.png":               "png",
		"browserconfig.xml":         "<browserconfig/>",
	}
	for _, size := range defaultIconSizes {
		files["icons/icon-"+size+"x"+size+".png"] = "png"
	}
	return files
}

func withFiles(base map[string]string, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func without(base map[string]string, names ...string) map[string]string {
	out := withFiles(base, nil)
	for _, n := range names {
		delete(out, n)
	}
	return out
}

type ruleCase struct {
	name       string
	files      map[string]string
	wantPassed bool
	// wantDetail, if set, must appear in the finding detail.
	wantDetail string
}

func runRuleCases(t *testing.T, rule rules.Rule, cases []ruleCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			tree := artifact.NewMapTree(tt.files)
			f, err := rule.Evaluate(context.Background(), artifact.DefaultLayout(), tree)
			if err != nil {
				t.Fatalf("Evaluate error: %v", err)
			}
			if f.RuleID != rule.ID() {
				t.Fatalf("want rule id %s, got %s", rule.ID(), f.RuleID)
			}
			if f.Passed != tt.wantPassed {
				t.Fatalf("want passed=%v, got %v (detail: %s)", tt.wantPassed, f.Passed, f.Detail)
			}
			if tt.wantDetail != "" && !strings.Contains(f.Detail, tt.wantDetail) {
				t.Fatalf("want detail containing %q, got %q", tt.wantDetail, f.Detail)
			}
		})
	}
}
