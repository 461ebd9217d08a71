package output

import (
	"fmt"
	"io"
	"strings"

	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

// MarkdownRenderer writes a report suitable for CI job summaries and PR
// comments.
type MarkdownRenderer struct {
	// Command, when set, is shown as the command that reproduces the run.
	Command string
	RunID   string
}

func (m MarkdownRenderer) Render(w io.Writer, r *report.Report) error {
	var b strings.Builder
	c := r.Counts()

	b.WriteString("# PWA Conformance Report\n\n")
	fmt.Fprintf(&b, "- **Root:** `%s`\n", r.Root())
	result := "PASS"
	if r.ExitStatus() != report.ExitOK {
		result = "FAIL"
	}
	fmt.Fprintf(&b, "- **Result:** %s (exit code %d)\n", result, r.ExitStatus())
	if m.RunID != "" {
		fmt.Fprintf(&b, "- **Run:** `%s`\n", m.RunID)
	}
	b.WriteString("\n## Summary\n\n")
	b.WriteString("| Outcome | Count |\n")
	b.WriteString("| --- | ---: |\n")
	fmt.Fprintf(&b, "| Passed | %d |\n", c.Passed)
	fmt.Fprintf(&b, "| Warnings | %d |\n", c.Warnings)
	fmt.Fprintf(&b, "| Errors | %d |\n", c.Errors)
	b.WriteString("\n")

	writeFailures(&b, "Errors", "Required checks that failed. Any entry here fails the run.", r.Errors())
	writeFailures(&b, "Warnings", "Recommended checks that failed.", r.Warnings())

	b.WriteString("## Passed\n\n")
	passed := r.Passed()
	if len(passed) == 0 {
		b.WriteString("None.\n\n")
	} else {
		for _, f := range passed {
			fmt.Fprintf(&b, "- `%s` %s\n", f.RuleID, f.Title)
		}
		b.WriteString("\n")
	}

	if m.Command != "" {
		b.WriteString("## Reproduce\n\n")
		fmt.Fprintf(&b, "```sh\n%s\n```\n", m.Command)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeFailures(b *strings.Builder, heading, blurb string, findings []rules.Finding) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	if len(findings) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	b.WriteString(blurb + "\n\n")
	b.WriteString("| Rule | Check | Detail | Artifacts |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, f := range findings {
		artifacts := make([]string, 0, len(f.Artifacts))
		for _, a := range f.Artifacts {
			artifacts = append(artifacts, "`"+a+"`")
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s |\n",
			f.RuleID, escapeCell(f.Title), escapeCell(f.Detail), strings.Join(artifacts, "<br>"))
	}
	b.WriteString("\n")
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
