// Package report holds the outcome of one check run and the exit decision
// derived from it.
package report

import (
	"maps"
	"slices"

	"pwacheck/internal/rules"
)

const (
	// ExitOK means no required rule failed.
	ExitOK = 0
	// ExitRequiredFailure means at least one required rule failed.
	ExitRequiredFailure = 1
	// ExitInfrastructure means the checker could not operate at all.
	ExitInfrastructure = 2
)

// Counts are the per-outcome totals of a Report.
type Counts struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Total is the number of findings counted.
func (c Counts) Total() int {
	return c.Passed + c.Warnings + c.Errors
}

// Report is the ordered, immutable list of findings from one run.
type Report struct {
	root     string
	findings []rules.Finding
	counts   Counts
}

// New builds a Report for root. The findings slice is copied.
func New(root string, findings []rules.Finding) *Report {
	r := &Report{
		root:     root,
		findings: make([]rules.Finding, len(findings)),
	}
	for i, f := range findings {
		r.findings[i] = copyFinding(f)
		switch f.Status() {
		case rules.StatusPass:
			r.counts.Passed++
		case rules.StatusWarn:
			r.counts.Warnings++
		case rules.StatusFail:
			r.counts.Errors++
		}
	}
	return r
}

func (r *Report) Root() string {
	return r.root
}

// Findings returns the findings in evaluation order.
func (r *Report) Findings() []rules.Finding {
	out := make([]rules.Finding, len(r.findings))
	for i, f := range r.findings {
		out[i] = copyFinding(f)
	}
	return out
}

// ByStatus returns the findings with the given status, in evaluation order.
func (r *Report) ByStatus(status rules.Status) []rules.Finding {
	var out []rules.Finding
	for _, f := range r.findings {
		if f.Status() == status {
			out = append(out, copyFinding(f))
		}
	}
	return out
}

func (r *Report) Passed() []rules.Finding   { return r.ByStatus(rules.StatusPass) }
func (r *Report) Warnings() []rules.Finding { return r.ByStatus(rules.StatusWarn) }
func (r *Report) Errors() []rules.Finding   { return r.ByStatus(rules.StatusFail) }

func (r *Report) Counts() Counts {
	return r.counts
}

// ExitStatus is the process exit code for the report: ExitRequiredFailure
// iff a required finding failed.
func (r *Report) ExitStatus() int {
	if r.counts.Errors > 0 {
		return ExitRequiredFailure
	}
	return ExitOK
}

func copyFinding(f rules.Finding) rules.Finding {
	if f.Artifacts != nil {
		f.Artifacts = append([]string(nil), f.Artifacts...)
	}
	if f.Metadata != nil {
		f.Metadata = copyValue(f.Metadata).(map[string]any)
	}
	return f
}

// copyValue deep-copies the slice and map shapes rules put in metadata.
// Other values are immutable and shared.
func copyValue(v any) any {
	switch v := v.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = copyValue(e)
		}
		return out
	case map[string]string:
		return maps.Clone(v)
	}
	return v
}
