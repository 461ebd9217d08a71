package artifact

import (
	"context"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// MapTree is an in-memory Tree keyed by slash-separated path.
type MapTree struct {
	root  string
	files map[string]string
	// errs injects read failures per path, for exercising error handling.
	errs    map[string]error
	rootErr error
}

func NewMapTree(files map[string]string) *MapTree {
	// A nil map is treated as an empty tree.
	return &MapTree{root: "memory", files: files}
}

// WithError makes every access to name fail with err.
func (t *MapTree) WithError(name string, err error) *MapTree {
	if t.errs == nil {
		t.errs = make(map[string]error)
	}
	t.errs[name] = err
	return t
}

// WithRootError makes Check fail with err.
func (t *MapTree) WithRootError(err error) *MapTree {
	t.rootErr = err
	return t
}

func (t *MapTree) Root() string {
	return t.root
}

func (t *MapTree) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.rootErr
}

func (t *MapTree) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err, ok := t.errs[name]; ok {
		return false, err
	}
	_, ok := t.files[name]
	return ok, nil
}

func (t *MapTree) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := t.errs[name]; ok {
		return nil, err
	}
	content, ok := t.files[name]
	if !ok {
		return nil, notFound(name)
	}
	return []byte(content), nil
}

func (t *MapTree) Glob(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &IOError{Op: "glob", Path: pattern, Err: doublestar.ErrBadPattern}
	}
	var out []string
	for name := range t.files {
		if ok, _ := doublestar.Match(pattern, name); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}
