package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pwacheck/internal/report"
)

// FileSink writes the run to a file in json, ndjson or text form.
type FileSink struct {
	path   string
	format string
	file   *os.File
	mu     sync.Mutex
	stream *ndjsonStream
	report *report.Report
}

// InferFormat maps an output file extension onto a sink format.
func InferFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return "json", nil
	case ".ndjson", ".jsonl":
		return "ndjson", nil
	case ".txt", ".log":
		return "text", nil
	}
	return "", fmt.Errorf("cannot infer output format from file extension %q", ext)
}

func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}

	if format == "" {
		inferred, err := InferFormat(path)
		if err != nil {
			return nil, err
		}
		format = inferred
	}
	if format != "json" && format != "ndjson" && format != "text" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	f, err := createFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	s := &FileSink{path: path, format: format, file: f}
	if format == "ndjson" {
		s.stream = &ndjsonStream{writer: f}
	}
	return s, nil
}

func createFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func (s *FileSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "ndjson" {
		return s.stream.write(v)
	}
	if rep, ok := v.(*report.Report); ok {
		s.report = rep
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.report != nil {
		switch s.format {
		case "json":
			err = JSONRenderer{}.Render(s.file, s.report)
		case "text":
			err = TextRenderer{}.Render(s.file, s.report)
		}
	}
	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
