package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

var defaultLifecycleEvents = []string{"install", "activate", "fetch"}

type ServiceWorkerLifecycleHandlersRule struct {
	events []string
}

func (r *ServiceWorkerLifecycleHandlersRule) ID() string {
	return "service_worker.lifecycle_handlers"
}

func (r *ServiceWorkerLifecycleHandlersRule) Title() string {
	return "Service worker handles its lifecycle events"
}

func (r *ServiceWorkerLifecycleHandlersRule) Description() string {
	return "Verifies that the service worker registers handlers for install, activate and fetch, via addEventListener(\"<event>\", ...) or an on<event> assignment."
}

func (r *ServiceWorkerLifecycleHandlersRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *ServiceWorkerLifecycleHandlersRule) Options() []rules.Option {
	return []rules.Option{
		{
			Name:        "events",
			Description: "Comma-separated list of events the service worker must handle.",
			Default:     strings.Join(defaultLifecycleEvents, ","),
		},
	}
}

func (r *ServiceWorkerLifecycleHandlersRule) Configure(opts map[string]string) error {
	r.events = listOption(opts, "events", defaultLifecycleEvents)
	return nil
}

func handlesEvent(script, event string) bool {
	ev := regexp.QuoteMeta(event)
	pattern := regexp.MustCompile(`addEventListener\s*\(\s*['"` + "`" + `]` + ev + `['"` + "`" + `]|\bon` + ev + `\s*=`)
	return pattern.MatchString(script)
}

func (r *ServiceWorkerLifecycleHandlersRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	found, ok, err := artifact.FirstExisting(ctx, tree, layout.ServiceWorkers)
	if err != nil {
		return rules.Finding{}, err
	}
	if !ok {
		return rules.FailFinding(r, "cannot evaluate: no service worker found (looked for "+strings.Join(layout.ServiceWorkers, ", ")+")"), nil
	}
	script, err := artifact.ReadText(ctx, tree, found)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}

	events := r.events
	if len(events) == 0 {
		events = defaultLifecycleEvents
	}
	have := make(map[string]bool)
	for _, ev := range events {
		have[ev] = handlesEvent(script, ev)
	}
	if missing := missingFrom(events, have); len(missing) > 0 {
		return rules.FailFindingWithMetadata(r, fmt.Sprintf("%s lacks handlers for: %s", found, strings.Join(missing, ", ")), map[string]any{
			"missing": missing,
		}), nil
	}
	return rules.PassFinding(r, fmt.Sprintf("%s handles %s", found, strings.Join(events, ", "))), nil
}
