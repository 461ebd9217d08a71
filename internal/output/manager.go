package output

import (
	"errors"
	"fmt"

	"pwacheck/internal/report"
	"pwacheck/internal/rules"
)

// Sink is a destination for run output: lifecycle Events, rules.Finding
// values as they are produced, and the final *report.Report.
type Sink interface {
	Write(v any) error
	Close() error
}

// Manager fans run output out to every configured sink.
type Manager struct {
	sinks []Sink
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddSink(s Sink) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	if s == nil {
		return fmt.Errorf("sink must not be nil")
	}
	m.sinks = append(m.sinks, s)
	return nil
}

// Write hands v to every sink. v must be an Event, a rules.Finding or the
// final *report.Report; a failing sink does not stop the others.
func (m *Manager) Write(v any) error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	switch v.(type) {
	case Event, rules.Finding, *report.Report:
	default:
		return fmt.Errorf("unsupported output value %T", v)
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(v); err != nil {
			errs = append(errs, fmt.Errorf("write %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors writing to sinks: %w", errors.Join(errs...))
	}
	return nil
}

func (m *Manager) Close() error {
	if m == nil {
		return fmt.Errorf("output manager is nil")
	}
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %T: %w", s, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sinks: %w", errors.Join(errs...))
	}
	return nil
}
