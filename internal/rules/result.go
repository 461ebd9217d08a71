package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityRequired    Severity = "required"
	SeverityRecommended Severity = "recommended"
)

// ParseSeverity accepts "required"/"recommended" and the aliases
// "error"/"warning".
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "required", "error":
		return SeverityRequired, nil
	case "recommended", "warning", "warn":
		return SeverityRecommended, nil
	}
	return "", fmt.Errorf("unknown severity %q (must be one of: required, recommended)", raw)
}

type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Finding is the outcome of one rule against one artifact tree.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`
	Passed   bool     `json:"passed"`
	Detail   string   `json:"detail,omitempty"`
	// Artifacts lists the paths and patterns the rule read.
	Artifacts []string `json:"artifacts,omitempty"`
	// Metadata contains structured data supporting the finding (e.g. missing sizes).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Status maps a finding onto the report outcome: failures of required rules
// are errors, failures of recommended rules are warnings.
func (f Finding) Status() Status {
	if f.Passed {
		return StatusPass
	}
	if f.Severity == SeverityRequired {
		return StatusFail
	}
	return StatusWarn
}

func (f Finding) MarshalJSON() ([]byte, error) {
	type plain Finding
	return json.Marshal(struct {
		plain
		Status Status `json:"status"`
	}{plain: plain(f), Status: f.Status()})
}
