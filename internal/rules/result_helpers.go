package rules

import (
	"fmt"

	"pwacheck/internal/artifact"
)

func NewFinding(r Rule, passed bool, detail string) Finding {
	return Finding{
		RuleID:   r.ID(),
		Title:    r.Title(),
		Severity: r.Severity(),
		Passed:   passed,
		Detail:   detail,
	}
}

func PassFinding(r Rule, detail string) Finding {
	return NewFinding(r, true, detail)
}

func FailFinding(r Rule, detail string) Finding {
	return NewFinding(r, false, detail)
}

func FailFindingWithMetadata(r Rule, detail string, metadata map[string]any) Finding {
	f := NewFinding(r, false, detail)
	f.Metadata = metadata
	return f
}

// PrerequisiteFinding turns an artifact error into a failed finding when it
// describes the target (missing or malformed artifact). Any other error is
// returned unchanged for the engine to escalate.
func PrerequisiteFinding(r Rule, err error) (Finding, error) {
	switch {
	case artifact.IsNotFound(err):
		return FailFinding(r, err.Error()), nil
	case artifact.IsMalformed(err):
		return FailFinding(r, fmt.Sprintf("cannot evaluate: %v", err)), nil
	}
	return Finding{}, err
}
