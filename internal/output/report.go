package output

import (
	"fmt"
	"os"
	"sync"

	"pwacheck/internal/report"
)

// ReportSink writes the Markdown report to a file when closed.
type ReportSink struct {
	path    string
	command string
	file    *os.File
	mu      sync.Mutex
	runID   string
	report  *report.Report
}

// NewReportSink creates the report file. command is the reproduce command
// printed at the end of the report; it may be empty.
func NewReportSink(path, command string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}
	f, err := createFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return &ReportSink{path: path, command: command, file: f}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case Event:
		if t.Type == EventRunStarted {
			s.runID = t.RunID
		}
	case *report.Report:
		s.report = t
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.report == nil {
		_, err = fmt.Fprintln(s.file, "# PWA Conformance Report\n\nNo report was produced.")
	} else {
		err = MarkdownRenderer{Command: s.command, RunID: s.runID}.Render(s.file, s.report)
	}
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
