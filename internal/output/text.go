package output

import (
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/fatih/color"

	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

// TextRenderer writes the line-oriented report: one group per outcome and a
// closing summary line that ParseSummary can read back.
type TextRenderer struct {
	// Color enables ANSI colors on status markers.
	Color bool
	// Statuses limits the listed groups (PASS, WARN, FAIL). Empty lists all.
	Statuses []string
}

var textGroups = []struct {
	status rules.Status
	title  string
	attr   color.Attribute
}{
	{rules.StatusPass, "Passed", color.FgGreen},
	{rules.StatusWarn, "Warnings", color.FgYellow},
	{rules.StatusFail, "Errors", color.FgRed},
}

func (t TextRenderer) Render(w io.Writer, r *report.Report) error {
	filter := newStatusFilter(t.Statuses)

	if _, err := fmt.Fprintf(w, "PWA conformance: %s\n", r.Root()); err != nil {
		return err
	}
	for _, g := range textGroups {
		if !filter.allows(g.status) {
			continue
		}
		findings := r.ByStatus(g.status)
		marker := color.New(g.attr, color.Bold)
		if t.Color {
			marker.EnableColor()
		} else {
			marker.DisableColor()
		}

		if _, err := fmt.Fprintf(w, "\n%s (%d)\n", g.title, len(findings)); err != nil {
			return err
		}
		for _, f := range findings {
			line := fmt.Sprintf("  %s %s: %s", marker.Sprintf("[%s]", f.Status()), f.RuleID, f.Title)
			if !f.Passed && f.Detail != "" {
				line += " - " + f.Detail
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	c := r.Counts()
	_, err := fmt.Fprintf(w, "\nSummary: %d passed, %d warnings, %d errors\n", c.Passed, c.Warnings, c.Errors)
	return err
}

var summaryPattern = regexp.MustCompile(`(?m)^Summary: (\d+) passed, (\d+) warnings, (\d+) errors$`)

// ParseSummary reads the counts back from text produced by TextRenderer.
// The last summary line wins.
func ParseSummary(text string) (report.Counts, error) {
	all := summaryPattern.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return report.Counts{}, fmt.Errorf("no summary line found")
	}
	m := all[len(all)-1]
	var n [3]int
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return report.Counts{}, fmt.Errorf("invalid count %q: %w", m[i+1], err)
		}
		n[i] = v
	}
	return report.Counts{Passed: n[0], Warnings: n[1], Errors: n[2]}, nil
}
