package checks

import (
	"testing"
)

func TestIconsSizeSetRule_Evaluate(t *testing.T) {
	onlyLarge := without(conformingFiles(),
		"icons/icon-16x16.png", "icons/icon-32x32.png", "icons/icon-72x72.png", "icons/icon-96x96.png",
		"icons/icon-128x128.png", "icons/icon-144x144.png", "icons/icon-152x152.png", "icons/icon-384x384.png",
	)
	runRuleCases(t, &IconsSizeSetRule{}, []ruleCase{
		{name: "PASS with every size", files: conformingFiles(), wantPassed: true, wantDetail: "all 10"},
		{
			name:       "FAIL enumerates missing sizes",
			files:      onlyLarge,
			wantDetail: "missing 8 of 10 icon sizes in icons: 16x16, 32x32, 72x72, 96x96, 128x128, 144x144, 152x152, 384x384",
		},
		{name: "FAIL when wrong extension", files: withFiles(without(conformingFiles(), "icons/icon-16x16.png"), map[string]string{"icons/icon-16x16.jpg": ""}), wantDetail: "16x16"},
	})
}

func TestIconsSizeSetRule_Configure(t *testing.T) {
	rule := &IconsSizeSetRule{}
	if err := rule.Configure(map[string]string{"sizes": "192, 512x512"}); err != nil {
		t.Fatalf("Configure error: %v", err)
	}
	files := map[string]string{"icons/icon-192x192.png": "", "icons/icon-512x512.png": ""}
	runRuleCases(t, rule, []ruleCase{
		{name: "PASS with configured sizes", files: files, wantPassed: true, wantDetail: "all 2"},
	})

	if err := rule.Configure(map[string]string{"sizes": "x12"}); err == nil {
		t.Fatalf("expected error for invalid size")
	}
}
