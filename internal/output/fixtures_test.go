package output

import (
	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

func sampleFindings() []rules.Finding {
	return []rules.Finding{
		{RuleID: "manifest.exists", Title: "Web manifest exists", Severity: rules.SeverityRequired, Passed: true, Detail: "manifest.json present", Artifacts: []string{"manifest.json"}},
		{RuleID: "entry.viewport_tag", Title: "Entry page declares a responsive viewport", Severity: rules.SeverityRequired, Passed: false, Detail: "no <meta name=\"viewport\"> tag in index.html", Artifacts: []string{"index.html"}},
		{RuleID: "icons.size_set", Title: "Icon files cover the standard sizes", Severity: rules.SeverityRecommended, Passed: false, Detail: "missing 1 of 10 icon sizes in icons: 16x16", Artifacts: []string{"icons/icon-*x*.*"}},
		{RuleID: "favicon.exists", Title: "Favicon exists", Severity: rules.SeverityRecommended, Passed: true, Detail: "favicon.png present"},
	}
}

func sampleReport() *report.Report {
	return report.New("build/web", sampleFindings())
}
