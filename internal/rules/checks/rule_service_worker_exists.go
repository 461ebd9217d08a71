package checks

import (
	"context"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

type ServiceWorkerExistsRule struct{}

func (r *ServiceWorkerExistsRule) ID() string {
	return "service_worker.exists"
}

func (r *ServiceWorkerExistsRule) Title() string {
	return "Service worker script is present"
}

func (r *ServiceWorkerExistsRule) Description() string {
	return "Verifies that a service worker script exists. flutter_service_worker.js is generated by `flutter build web`; sw.js and service-worker.js are accepted for custom workers."
}

func (r *ServiceWorkerExistsRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *ServiceWorkerExistsRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	found, ok, err := artifact.FirstExisting(ctx, tree, layout.ServiceWorkers)
	if err != nil {
		return rules.Finding{}, err
	}
	if !ok {
		return rules.FailFinding(r, "no service worker found (looked for "+strings.Join(layout.ServiceWorkers, ", ")+")"), nil
	}
	return rules.PassFinding(r, found+" present"), nil
}
