package output

import (
	"encoding/json"
	"io"

	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

// JSONRenderer writes the report as one indented JSON document.
type JSONRenderer struct {
	Statuses []string
}

type jsonReport struct {
	Root     string          `json:"root"`
	Summary  report.Counts   `json:"summary"`
	Findings []rules.Finding `json:"findings"`
	ExitCode int             `json:"exit_code"`
}

func (j JSONRenderer) Render(w io.Writer, r *report.Report) error {
	filter := newStatusFilter(j.Statuses)
	doc := jsonReport{
		Root:     r.Root(),
		Summary:  r.Counts(),
		Findings: []rules.Finding{},
		ExitCode: r.ExitStatus(),
	}
	for _, f := range r.Findings() {
		if filter.allows(f.Status()) {
			doc.Findings = append(doc.Findings, f)
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
