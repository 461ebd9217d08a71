package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DirTree is a Tree backed by a directory on the local filesystem.
type DirTree struct {
	root string
	fsys fs.FS
}

func NewDirTree(root string) *DirTree {
	if root == "" {
		root = "."
	}
	return &DirTree{root: root, fsys: os.DirFS(root)}
}

func (t *DirTree) Root() string {
	return t.root
}

func (t *DirTree) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(t.root)
	if err != nil {
		return &IOError{Op: "stat root", Path: t.root, Err: err}
	}
	if !info.IsDir() {
		return &IOError{Op: "stat root", Path: t.root, Err: errors.New("not a directory")}
	}
	// Stat succeeds on directories we cannot list; reading catches that.
	if _, err := os.ReadDir(t.root); err != nil {
		return &IOError{Op: "read root", Path: t.root, Err: err}
	}
	return nil
}

func (t *DirTree) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	clean, err := cleanName(name)
	if err != nil {
		return false, err
	}
	info, err := fs.Stat(t.fsys, clean)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &IOError{Op: "stat", Path: name, Err: err}
}

func (t *DirTree) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(t.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		if info, serr := fs.Stat(t.fsys, clean); serr == nil && info.IsDir() {
			return nil, NotAFile(name)
		}
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}
	return data, nil
}

func (t *DirTree) Glob(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(t.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &IOError{Op: "glob", Path: pattern, Err: err}
	}
	sort.Strings(matches)
	return matches, nil
}

// cleanName normalises a tree path and rejects paths that escape the root.
func cleanName(name string) (string, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if !fs.ValidPath(clean) {
		return "", &IOError{Op: "resolve", Path: name, Err: fmt.Errorf("path escapes the artifact root")}
	}
	return clean, nil
}
