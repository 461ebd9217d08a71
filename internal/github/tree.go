package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/go-github/v81/github"

	"pwacheck/internal/artifact"
)

// Tree is an artifact.Tree over a directory of a GitHub repository, read
// through the contents API. A 404 is a missing artifact; every other API
// failure is an *artifact.IOError.
type Tree struct {
	client *Client
	owner  string
	repo   string
	ref    string
	root   string
}

// NewTree returns a tree rooted at dir inside repository (OWNER/REPO) at
// ref. An empty ref reads the default branch.
func NewTree(c *Client, repository, ref, dir string) (*Tree, error) {
	if c == nil || c.Client == nil {
		return nil, fmt.Errorf("github tree: client is nil")
	}
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("github tree: invalid repository %q (expected OWNER/REPO)", repository)
	}
	root := strings.Trim(path.Clean("/"+strings.TrimSpace(dir)), "/")
	return &Tree{client: c, owner: owner, repo: repo, ref: ref, root: root}, nil
}

func (t *Tree) Root() string {
	s := fmt.Sprintf("github.com/%s/%s", t.owner, t.repo)
	if t.ref != "" {
		s += "@" + t.ref
	}
	if t.root != "" {
		s += ":" + t.root
	}
	return s
}

func (t *Tree) Check(ctx context.Context) error {
	file, dir, found, err := t.get(ctx, t.root)
	if err != nil {
		return err
	}
	if !found {
		return &artifact.IOError{Op: "check root", Path: t.Root(), Err: fs.ErrNotExist}
	}
	if file != nil && dir == nil {
		return &artifact.IOError{Op: "check root", Path: t.Root(), Err: errors.New("not a directory")}
	}
	return nil
}

func (t *Tree) Exists(ctx context.Context, name string) (bool, error) {
	full, err := t.resolve(name)
	if err != nil {
		return false, err
	}
	file, _, found, err := t.get(ctx, full)
	if err != nil {
		return false, err
	}
	return found && file != nil, nil
}

func (t *Tree) ReadFile(ctx context.Context, name string) ([]byte, error) {
	full, err := t.resolve(name)
	if err != nil {
		return nil, err
	}
	file, _, found, err := t.get(ctx, full)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", name, artifact.ErrNotFound)
	}
	if file == nil {
		return nil, artifact.NotAFile(name)
	}

	// Files above the contents API size limit come back without inline
	// content and must be downloaded.
	if file.GetEncoding() == "none" {
		return t.download(ctx, full, name)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, &artifact.IOError{Op: "decode", Path: name, Err: err}
	}
	return []byte(content), nil
}

func (t *Tree) Glob(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, &artifact.IOError{Op: "glob", Path: pattern, Err: doublestar.ErrBadPattern}
	}
	base, rest := doublestar.SplitPattern(pattern)
	if base == "." {
		base = ""
	}
	recursive := strings.Contains(rest, "/")

	var out []string
	err := t.walk(ctx, base, recursive, func(rel string) error {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return err
		}
		if ok {
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// walk lists files under dir (relative to the tree root), descending into
// subdirectories when recursive is set. A missing dir lists nothing.
func (t *Tree) walk(ctx context.Context, dir string, recursive bool, fn func(rel string) error) error {
	full := t.root
	if dir != "" {
		full = path.Join(t.root, dir)
	}
	_, entries, found, err := t.get(ctx, full)
	if err != nil || !found {
		return err
	}
	for _, e := range entries {
		rel := e.GetName()
		if dir != "" {
			rel = path.Join(dir, e.GetName())
		}
		switch e.GetType() {
		case "file", "symlink":
			if err := fn(rel); err != nil {
				return err
			}
		case "dir":
			if recursive {
				if err := t.walk(ctx, rel, recursive, fn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (t *Tree) resolve(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	if !fs.ValidPath(clean) || clean == "." {
		return "", &artifact.IOError{Op: "open", Path: name, Err: errors.New("path escapes the artifact root")}
	}
	return path.Join(t.root, clean), nil
}

// get fetches one path. found is false on 404.
func (t *Tree) get(ctx context.Context, full string) (*github.RepositoryContent, []*github.RepositoryContent, bool, error) {
	var opts *github.RepositoryContentGetOptions
	if t.ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: t.ref}
	}
	file, dir, resp, err := t.client.Client.Repositories.GetContents(ctx, t.owner, t.repo, full, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil, false, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, false, ctxErr
		}
		return nil, nil, false, &artifact.IOError{Op: "github contents", Path: t.display(full), Err: err}
	}
	return file, dir, true, nil
}

func (t *Tree) download(ctx context.Context, full, name string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if t.ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: t.ref}
	}
	rc, resp, err := t.client.Client.Repositories.DownloadContents(ctx, t.owner, t.repo, full, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", name, artifact.ErrNotFound)
		}
		return nil, &artifact.IOError{Op: "github download", Path: name, Err: err}
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, &artifact.IOError{Op: "github download", Path: name, Err: err}
	}
	return b, nil
}

func (t *Tree) display(full string) string {
	return fmt.Sprintf("%s/%s:%s", t.owner, t.repo, full)
}
