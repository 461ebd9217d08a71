package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"pwacheck/internal/report"
)

// ConsoleSink prints the run to a terminal stream.
//
// Formats:
//   - text: the grouped text report, printed once the report is complete
//   - json: the aggregate JSON report
//   - ndjson: lifecycle events streamed as they happen
type ConsoleSink struct {
	writer   io.Writer
	format   string
	color    bool
	statuses []string
	mu       sync.Mutex
	stream   *ndjsonStream
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string, color bool) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	s := &ConsoleSink{
		writer:   w,
		format:   format,
		color:    color,
		statuses: filterStatuses,
	}
	if format == "ndjson" {
		s.stream = &ndjsonStream{writer: w, filter: newStatusFilter(filterStatuses), flush: true}
	}
	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "ndjson":
		return s.stream.write(v)
	case "text", "json":
		rep, ok := v.(*report.Report)
		if !ok {
			// Only the finished report is printed in aggregate modes.
			return nil
		}
		var r Renderer = TextRenderer{Color: s.color, Statuses: s.statuses}
		if s.format == "json" {
			r = JSONRenderer{Statuses: s.statuses}
		}
		if err := r.Render(s.writer, rep); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.format {
	case "text", "json", "ndjson":
		return flushIfPossible(s.writer)
	}
	return fmt.Errorf("unsupported console format: %s", s.format)
}
