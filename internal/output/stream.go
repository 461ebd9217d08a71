package output

import (
	"encoding/json"
	"io"

	"pwacheck/internal/rules"
)

// ndjsonStream encodes lifecycle events and findings one per line.
type ndjsonStream struct {
	writer io.Writer
	filter statusFilter
	runID  string
	flush  bool
}

func (s *ndjsonStream) write(v any) error {
	var e Event
	switch t := v.(type) {
	case Event:
		if t.Type == EventRunStarted {
			s.runID = t.RunID
		}
		e = t
	case rules.Finding:
		if !s.filter.allows(t.Status()) {
			return nil
		}
		e = eventFromFinding(s.runID, t)
	default:
		return nil
	}
	if err := json.NewEncoder(s.writer).Encode(e); err != nil {
		return err
	}
	if s.flush {
		return flushIfPossible(s.writer)
	}
	return nil
}
