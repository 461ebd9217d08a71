package output

import (
	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

const (
	EventRunStarted  = "run.started"
	EventRuleResult  = "rule.result"
	EventRunFinished = "run.finished"
)

// Event is a lifecycle record for NDJSON streaming output.
//
// A run emits run.started, one rule.result per finding and run.finished.
// Findings written to a sink as rules.Finding are wrapped into rule.result
// events carrying the run ID seen in run.started.
type Event struct {
	Type     string         `json:"type"`
	RunID    string         `json:"run_id,omitempty"`
	Root     string         `json:"root,omitempty"`
	Finding  *rules.Finding `json:"finding,omitempty"`
	Rules    int            `json:"rules,omitempty"`
	Summary  *report.Counts `json:"summary,omitempty"`
	ExitCode *int           `json:"exit_code,omitempty"`
}

// RunFinished builds the closing event of a run.
func RunFinished(runID string, rep *report.Report, exitCode int) Event {
	e := Event{Type: EventRunFinished, RunID: runID, ExitCode: &exitCode}
	if rep != nil {
		counts := rep.Counts()
		e.Root = rep.Root()
		e.Summary = &counts
	}
	return e
}

func eventFromFinding(runID string, f rules.Finding) Event {
	return Event{Type: EventRuleResult, RunID: runID, Finding: &f}
}
