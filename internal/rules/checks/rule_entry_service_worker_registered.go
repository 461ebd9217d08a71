package checks

import (
	"context"
	"fmt"
	"regexp"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

// Flutter's bootstrap registers flutter_service_worker.js itself when the
// loader receives serviceWorkerSettings (or the older serviceWorkerVersion).
var serviceWorkerRegistrations = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"navigator.serviceWorker.register", regexp.MustCompile(`navigator\s*\.\s*serviceWorker\s*\.\s*register\s*\(`)},
	{"serviceWorkerSettings", regexp.MustCompile(`\bserviceWorkerSettings\b`)},
	{"serviceWorkerVersion", regexp.MustCompile(`\bserviceWorkerVersion\b`)},
}

type EntryServiceWorkerRegisteredRule struct{}

func (r *EntryServiceWorkerRegisteredRule) ID() string {
	return "entry.service_worker_registered"
}

func (r *EntryServiceWorkerRegisteredRule) Title() string {
	return "Entry page registers the service worker"
}

func (r *EntryServiceWorkerRegisteredRule) Description() string {
	return "Verifies that the entry page registers a service worker, either with navigator.serviceWorker.register() or through the Flutter loader service worker settings."
}

func (r *EntryServiceWorkerRegisteredRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *EntryServiceWorkerRegisteredRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	html, err := readEntry(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	for _, reg := range serviceWorkerRegistrations {
		if reg.pattern.MatchString(html) {
			return rules.PassFinding(r, "registered via "+reg.name), nil
		}
	}
	return rules.FailFinding(r, fmt.Sprintf("%s does not register a service worker", layout.Entry)), nil
}
