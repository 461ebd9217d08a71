package artifact

import (
	"context"
	"sort"
)

// TrackingTree wraps another Tree and records every path callers touch.
//
// The engine wraps the tree once per rule so that each finding can list the
// artifacts it was derived from.
type TrackingTree struct {
	inner    Tree
	accessed map[string]struct{}
}

func NewTrackingTree(inner Tree) *TrackingTree {
	return &TrackingTree{
		inner:    inner,
		accessed: make(map[string]struct{}),
	}
}

func (t *TrackingTree) Root() string {
	return t.inner.Root()
}

func (t *TrackingTree) Check(ctx context.Context) error {
	return t.inner.Check(ctx)
}

func (t *TrackingTree) Exists(ctx context.Context, name string) (bool, error) {
	t.accessed[name] = struct{}{}
	return t.inner.Exists(ctx, name)
}

func (t *TrackingTree) ReadFile(ctx context.Context, name string) ([]byte, error) {
	t.accessed[name] = struct{}{}
	return t.inner.ReadFile(ctx, name)
}

func (t *TrackingTree) Glob(ctx context.Context, pattern string) ([]string, error) {
	t.accessed[pattern] = struct{}{}
	return t.inner.Glob(ctx, pattern)
}

// Accessed returns the touched paths and patterns, sorted.
func (t *TrackingTree) Accessed() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.accessed))
	for k := range t.accessed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
