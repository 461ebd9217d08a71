// Package artifact provides read-only views over the files a conformance run
// inspects.
//
// Paths are slash-separated and relative to the tree root. Implementations
// report a missing file with an error wrapping ErrNotFound; any other error is
// an infrastructure failure (see IOError).
package artifact

import (
	"bytes"
	"context"
	"encoding/json"
)

// Tree is the read-only artifact view rules evaluate against.
type Tree interface {
	// Root describes where the tree is rooted (a directory or a remote location).
	Root() string

	// Check verifies that the root itself is readable.
	Check(ctx context.Context) error

	// Exists reports whether name is a file. A directory at name does not
	// count, and ReadFile reports it as not found.
	Exists(ctx context.Context, name string) (bool, error)
	ReadFile(ctx context.Context, name string) ([]byte, error)

	// Glob returns the sorted paths matching a doublestar pattern.
	Glob(ctx context.Context, pattern string) ([]string, error)
}

var utf8BOM = []byte("\xef\xbb\xbf")

// ReadText reads name as text.
func ReadText(ctx context.Context, t Tree, name string) (string, error) {
	data, err := t.ReadFile(ctx, name)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

// ReadJSON reads name and decodes it into v. Decoding failures are returned
// as *MalformedError.
func ReadJSON(ctx context.Context, t Tree, name string, v any) error {
	data, err := t.ReadFile(ctx, name)
	if err != nil {
		return err
	}
	// Manifests saved by Windows tooling often carry a BOM.
	data = bytes.TrimPrefix(data, utf8BOM)
	if err := json.Unmarshal(data, v); err != nil {
		return &MalformedError{Path: name, Err: err}
	}
	return nil
}

// FirstExisting returns the first candidate present in the tree.
func FirstExisting(ctx context.Context, t Tree, candidates []string) (string, bool, error) {
	for _, c := range candidates {
		ok, err := t.Exists(ctx, c)
		if err != nil {
			return "", false, err
		}
		if ok {
			return c, true, nil
		}
	}
	return "", false, nil
}
