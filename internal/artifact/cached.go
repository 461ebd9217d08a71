package artifact

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const prefetchLimit = 4

// CachedTree memoises reads of an inner Tree for the lifetime of one run.
// Several rules read the same manifest and entry page; each file is fetched
// once. Concurrent callers of the same path share a single inner read.
//
// Returned byte slices are shared between callers and must not be modified.
type CachedTree struct {
	inner Tree
	group singleflight.Group
	cache sync.Map
}

type cachedValue struct {
	data    []byte
	exists  bool
	matches []string
	err     error
}

func NewCachedTree(inner Tree) *CachedTree {
	return &CachedTree{inner: inner}
}

func (c *CachedTree) Root() string {
	return c.inner.Root()
}

func (c *CachedTree) Check(ctx context.Context) error {
	return c.inner.Check(ctx)
}

func (c *CachedTree) Exists(ctx context.Context, name string) (bool, error) {
	// A completed read answers existence without another round trip.
	if v, ok := c.cache.Load("read:" + name); ok {
		cv := v.(cachedValue)
		if cv.err == nil {
			return true, nil
		}
		if IsNotFound(cv.err) {
			return false, nil
		}
	}
	cv, err := c.do(ctx, "exists:"+name, func() cachedValue {
		ok, err := c.inner.Exists(ctx, name)
		return cachedValue{exists: ok, err: err}
	})
	if err != nil {
		return false, err
	}
	return cv.exists, cv.err
}

// Prefetch reads names concurrently so that rules find them cached. Rules
// that ask for a path still in flight share the prefetch read. Read errors
// are cached for whoever reads the path; Prefetch only reports cancellation.
func (c *CachedTree) Prefetch(ctx context.Context, names []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	for _, name := range names {
		g.Go(func() error {
			_, err := c.ReadFile(ctx, name)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *CachedTree) ReadFile(ctx context.Context, name string) ([]byte, error) {
	cv, err := c.do(ctx, "read:"+name, func() cachedValue {
		data, err := c.inner.ReadFile(ctx, name)
		return cachedValue{data: data, err: err}
	})
	if err != nil {
		return nil, err
	}
	return cv.data, cv.err
}

func (c *CachedTree) Glob(ctx context.Context, pattern string) ([]string, error) {
	cv, err := c.do(ctx, "glob:"+pattern, func() cachedValue {
		matches, err := c.inner.Glob(ctx, pattern)
		return cachedValue{matches: matches, err: err}
	})
	if err != nil {
		return nil, err
	}
	return append([]string(nil), cv.matches...), cv.err
}

// do returns the cached value for key, computing it at most once. The
// returned error is only a cancellation of ctx; inner errors travel in the
// value so that they are cached too.
func (c *CachedTree) do(ctx context.Context, key string, fn func() cachedValue) (cachedValue, error) {
	if v, ok := c.cache.Load(key); ok {
		return v.(cachedValue), nil
	}
	if err := ctx.Err(); err != nil {
		return cachedValue{}, err
	}
	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		// A call that finished between the Load above and Do already stored it.
		if v, ok := c.cache.Load(key); ok {
			return v, nil
		}
		cv := fn()
		// Cancellation is not a property of the tree; let the next caller retry.
		if !errors.Is(cv.err, context.Canceled) && !errors.Is(cv.err, context.DeadlineExceeded) {
			c.cache.Store(key, cv)
		}
		return cv, nil
	})
	return v.(cachedValue), nil
}
