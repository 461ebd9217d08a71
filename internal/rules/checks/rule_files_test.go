package checks

import "testing"

func TestFaviconExistsRule_Evaluate(t *testing.T) {
	runRuleCases(t, &FaviconExistsRule{}, []ruleCase{
		{name: "PASS with png", files: conformingFiles(), wantPassed: true},
		{name: "PASS with ico", files: withFiles(without(conformingFiles(), "favicon.png"), map[string]string{"favicon.ico": ""}), wantPassed: true, wantDetail: "favicon.ico"},
		{name: "FAIL without favicon", files: without(conformingFiles(), "favicon.png"), wantDetail: "no favicon found"},
	})
}

func TestPlatformConfigExistsRule_Evaluate(t *testing.T) {
	runRuleCases(t, &PlatformConfigExistsRule{}, []ruleCase{
		{name: "PASS with browserconfig", files: conformingFiles(), wantPassed: true},
		{name: "PASS with firebase.json", files: withFiles(without(conformingFiles(), "browserconfig.xml"), map[string]string{"firebase.json": "{}"}), wantPassed: true, wantDetail: "firebase.json"},
		{name: "FAIL without descriptors", files: without(conformingFiles(), "browserconfig.xml"), wantDetail: "no platform descriptor"},
	})
}
