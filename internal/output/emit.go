package output

import (
	"fmt"
	"io"
	"sync"

	"pwacheck/internal/report"
)

// EmitSink writes an additional machine-readable stream next to the
// console output.
//
// Formats:
//   - json: the aggregate JSON report, written when the report arrives
//   - ndjson: lifecycle events, one JSON object per line
type EmitSink struct {
	writer io.Writer
	format string
	mu     sync.Mutex
	stream *ndjsonStream
}

func NewEmitSink(w io.Writer, format string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	switch format {
	case "json":
		return &EmitSink{writer: w, format: format}, nil
	case "ndjson":
		return &EmitSink{writer: w, format: format, stream: &ndjsonStream{writer: w, flush: true}}, nil
	}
	return nil, fmt.Errorf("unsupported emit format: %s", format)
}

func (s *EmitSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "ndjson" {
		return s.stream.write(v)
	}
	rep, ok := v.(*report.Report)
	if !ok {
		return nil
	}
	if err := (JSONRenderer{}).Render(s.writer, rep); err != nil {
		return err
	}
	return flushIfPossible(s.writer)
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return flushIfPossible(s.writer)
}
