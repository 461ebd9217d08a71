package checks

import (
	"context"
	"strings"

	"pwacheck/internal/artifact"
	"pwacheck/internal/rules"
)

var installPromptEvents = []string{"beforeinstallprompt", "appinstalled"}

type EntryInstallPromptHandlersRule struct{}

func (r *EntryInstallPromptHandlersRule) ID() string {
	return "entry.install_prompt_handlers"
}

func (r *EntryInstallPromptHandlersRule) Title() string {
	return "Entry page handles the install prompt"
}

func (r *EntryInstallPromptHandlersRule) Description() string {
	return "Verifies that the entry page wires both the beforeinstallprompt and appinstalled events, so the app can offer a custom install button and react once installed."
}

func (r *EntryInstallPromptHandlersRule) Severity() rules.Severity {
	return rules.SeverityRecommended
}

func (r *EntryInstallPromptHandlersRule) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (rules.Finding, error) {
	html, err := readEntry(ctx, layout, tree)
	if err != nil {
		return rules.PrerequisiteFinding(r, err)
	}
	have := make(map[string]bool)
	for _, ev := range installPromptEvents {
		have[ev] = strings.Contains(html, ev)
	}
	if missing := missingFrom(installPromptEvents, have); len(missing) > 0 {
		return rules.FailFindingWithMetadata(r, "missing handlers: "+strings.Join(missing, ", "), map[string]any{
			"missing": missing,
		}), nil
	}
	return rules.PassFinding(r, "handles "+strings.Join(installPromptEvents, " and ")), nil
}
