package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pwacheck/internal/config"
	_ "pwacheck/internal/rules/checks"
)

const flutterManifest = `{
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

const flutterEntry = `<!DOCTYPE html>
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

const flutterServiceWorker = `'use strict';
self.addEventListener("install", (event) => { self.skipWaiting(); });
self.addEventListener("activate", function(event) { event.waitUntil(self.clients.claim()); });
self.addEventListener("fetch", (event) => { event.respondWith(fetch(event.request)); });
`

var iconSizes = []string{"16", "32", "72", "96", "128", "144", "152", "192", "384", "512"}

// conformingBuild is a web build that passes all 17 rules.
func conformingBuild() map[string]string {
	files := map[string]string{
		"manifest.json":             flutterManifest,
		"index.html":                flutterEntry,
		"flutter_service_worker.js": flutterServiceWorker,
		"favicon.png":               "png",
		"firebase.json":             "{}",
	}
	for _, s := range iconSizes {
		files["icons/icon-"+s+"x"+s+".png"] = "png"
	}
	return files
}

func writeBuild(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return root
}

func without(files map[string]string, prefix string) map[string]string {
	out := make(map[string]string, len(files))
	for k, v := range files {
		if !strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out
}

// defaultRules resets every registered rule to its default options.
func defaultRules(t *testing.T) {
	t.Helper()
	if _, err := ConfigureRules(config.New()); err != nil {
		t.Fatalf("ConfigureRules: %v", err)
	}
}
