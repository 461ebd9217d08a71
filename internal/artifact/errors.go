package artifact

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a declared artifact is absent from the tree.
var ErrNotFound = errors.New("artifact not found")

// MalformedError reports an artifact that exists but cannot be parsed as the
// expected structured data. Want describes what was expected and defaults to
// "valid JSON".
type MalformedError struct {
	Path string
	Want string
	Err  error
}

func (e *MalformedError) Error() string {
	want := e.Want
	if want == "" {
		want = "valid JSON"
	}
	return fmt.Sprintf("%s is not %s: %v", e.Path, want, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// IOError is an unexpected failure reading the tree (permission denied,
// unreadable root, remote API failure). It means the checker cannot operate,
// not that the target is non-conformant.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func notFound(name string) error {
	return fmt.Errorf("%s: %w", name, ErrNotFound)
}

// NotAFile reports a directory sitting where a file artifact is expected.
func NotAFile(name string) error {
	return fmt.Errorf("%s is a directory, not a file: %w", name, ErrNotFound)
}

// IsNotFound reports whether err marks a missing artifact.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsMalformed reports whether err marks an artifact that failed to parse.
func IsMalformed(err error) bool {
	var me *MalformedError
	return errors.As(err, &me)
}

// IsConformanceError reports whether err describes the target (missing or
// malformed artifact) rather than a failure of the checker itself.
func IsConformanceError(err error) bool {
	return IsNotFound(err) || IsMalformed(err)
}
