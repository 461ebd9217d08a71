package output

import (
	"io"
	"strings"

	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

// Renderer turns a Report into bytes. Renderers are presentational only:
// the exit decision stays with the Report.
type Renderer interface {
	Render(w io.Writer, r *report.Report) error
}

// statusFilter restricts which findings a renderer lists. Summaries always
// cover the whole report.
type statusFilter map[rules.Status]bool

func newStatusFilter(statuses []string) statusFilter {
	if len(statuses) == 0 {
		return nil
	}
	f := make(statusFilter, len(statuses))
	for _, st := range statuses {
		f[rules.Status(strings.ToUpper(strings.TrimSpace(st)))] = true
	}
	return f
}

func (f statusFilter) allows(status rules.Status) bool {
	return len(f) == 0 || f[status]
}

// ValidStatuses are the values accepted by status filters.
var ValidStatuses = []string{string(rules.StatusPass), string(rules.StatusWarn), string(rules.StatusFail)}
