package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pwacheck/internal/artifact"
)

const (
	OptionSeverity = "severity"
	OptionWaive    = "waive"
)

// PolicyWrapper wraps a Rule to apply run policy: a severity override and an
// optional waiver that turns a failure into a documented pass.
type PolicyWrapper struct {
	Rule
	severity Severity
	waiver   string
}

// Severity returns the overridden severity, or the inner rule's default.
func (w *PolicyWrapper) Severity() Severity {
	if w.severity != "" {
		return w.severity
	}
	return w.Rule.Severity()
}

// Evaluate calls the inner rule's Evaluate and then applies the policy.
func (w *PolicyWrapper) Evaluate(ctx context.Context, layout artifact.Layout, tree artifact.Tree) (Finding, error) {
	f, err := w.Rule.Evaluate(ctx, layout, tree)
	if err != nil {
		return f, err
	}
	f.Severity = w.Severity()
	if !f.Passed && w.waiver != "" {
		detail := fmt.Sprintf("Waived: %s", w.waiver)
		if f.Detail != "" {
			detail = fmt.Sprintf("%s (waived failure: %s)", detail, f.Detail)
		}
		f.Passed = true
		f.Detail = detail
	}
	return f, nil
}

// Unwrap returns the inner rule.
func (w *PolicyWrapper) Unwrap() Rule {
	return w.Rule
}

// Options returns the policy options followed by the inner rule's options.
func (w *PolicyWrapper) Options() []Option {
	opts := []Option{
		{
			Name:        OptionSeverity,
			Description: "Override the rule severity: required (blocks success) or recommended (warning only).",
			Default:     string(w.Rule.Severity()),
		},
		{
			Name:        OptionWaive,
			Description: "Waive failures of this rule; the value is recorded as the reason.",
		},
	}
	if cr, ok := w.Rule.(ConfigurableRule); ok {
		opts = append(opts, cr.Options()...)
	}
	return opts
}

// Configure applies the policy options and forwards the rest to the inner
// rule (if configurable).
func (w *PolicyWrapper) Configure(opts map[string]string) error {
	w.severity = ""
	w.waiver = ""
	inner := make(map[string]string, len(opts))
	for k, v := range opts {
		switch k {
		case OptionSeverity:
			if strings.TrimSpace(v) == "" {
				continue
			}
			sev, err := ParseSeverity(v)
			if err != nil {
				return err
			}
			w.severity = sev
		case OptionWaive:
			w.waiver = strings.TrimSpace(v)
		default:
			inner[k] = v
		}
	}
	if cr, ok := w.Rule.(ConfigurableRule); ok {
		return cr.Configure(inner)
	}
	if len(inner) > 0 {
		names := make([]string, 0, len(inner))
		for k := range inner {
			names = append(names, k)
		}
		sort.Strings(names)
		return fmt.Errorf("rule %q does not support options: %s", w.ID(), strings.Join(names, ", "))
	}
	return nil
}
