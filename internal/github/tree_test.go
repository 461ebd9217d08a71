package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pwacheck/internal/artifact"
)

// contentsServer serves the GitHub contents API for an in-memory repository.
type contentsServer struct {
	files   map[string]string
	failing map[string]int
	refs    []string
}

func (s *contentsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const prefix = "/repos/acme/shop/contents/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	s.refs = append(s.refs, r.URL.Query().Get("ref"))
	p := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")

	if code, ok := s.failing[p]; ok {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if content, ok := s.files[p]; ok {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"name":     path.Base(p),
			"path":     p,
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
		})
		return
	}

	seen := map[string]bool{}
	var entries []map[string]any
	for name := range s.files {
		rel := name
		if p != "" {
			if !strings.HasPrefix(name, p+"/") {
				continue
			}
			rel = strings.TrimPrefix(name, p+"/")
		}
		first, _, nested := strings.Cut(rel, "/")
		if seen[first] {
			continue
		}
		seen[first] = true
		typ := "file"
		if nested {
			typ = "dir"
		}
		entries = append(entries, map[string]any{"type": typ, "name": first, "path": path.Join(p, first)})
	}
	if len(entries) == 0 {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i]["name"].(string) < entries[j]["name"].(string) })
	_ = json.NewEncoder(w).Encode(entries)
}

func newTestTree(t *testing.T, srv *contentsServer, ref, root string) *Tree {
	t.Helper()
	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	c, err := NewClient(context.Background(), "test-token", WithBaseURL(server.URL))
	require.NoError(t, err)
	tree, err := NewTree(c, "acme/shop", ref, root)
	require.NoError(t, err)
	return tree
}

func TestTree_ReadsThroughContentsAPI(t *testing.T) {
	srv := &contentsServer{files: map[string]string{
		"build/web/manifest.json":            `{"name":"Shop"}`,
		"build/web/index.html":               "<html></html>",
		"build/web/icons/icon-192x192.png":   "png",
		"build/web/icons/icon-512x512.png":   "png",
		"build/web/icons/Icon-maskable.png":  "png",
		"build/web/assets/fonts/Roboto.ttf":  "ttf",
		"build/web/assets/fonts/extra/a.ttf": "ttf",
	}}
	tree := newTestTree(t, srv, "main", "build/web")
	ctx := context.Background()

	assert.Equal(t, "github.com/acme/shop@main:build/web", tree.Root())
	require.NoError(t, tree.Check(ctx))

	b, err := tree.ReadFile(ctx, "manifest.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Shop"}`, string(b))

	ok, err := tree.Exists(ctx, "index.html")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tree.Exists(ctx, "sw.js")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = tree.ReadFile(ctx, "sw.js")
	assert.True(t, artifact.IsNotFound(err), "got %v", err)

	matches, err := tree.Glob(ctx, "icons/icon-*x*.*")
	require.NoError(t, err)
	assert.Equal(t, []string{"icons/icon-192x192.png", "icons/icon-512x512.png"}, matches)

	matches, err = tree.Glob(ctx, "assets/**/*.ttf")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/fonts/Roboto.ttf", "assets/fonts/extra/a.ttf"}, matches)

	matches, err = tree.Glob(ctx, "missing/*.png")
	require.NoError(t, err)
	assert.Empty(t, matches)

	for _, ref := range srv.refs {
		assert.Equal(t, "main", ref)
	}
}

func TestTree_DirectoryIsNotAFile(t *testing.T) {
	srv := &contentsServer{files: map[string]string{
		"manifest.json/nested.json": "{}",
	}}
	tree := newTestTree(t, srv, "", "")
	ctx := context.Background()

	ok, err := tree.Exists(ctx, "manifest.json")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = tree.ReadFile(ctx, "manifest.json")
	assert.True(t, artifact.IsNotFound(err), "got %v", err)
	assert.Contains(t, err.Error(), "manifest.json is a directory")
}

func TestTree_ServerErrorsAreIOErrors(t *testing.T) {
	srv := &contentsServer{
		files:   map[string]string{"web/index.html": "<html></html>"},
		failing: map[string]int{"web/manifest.json": http.StatusInternalServerError},
	}
	tree := newTestTree(t, srv, "", "web")

	_, err := tree.ReadFile(context.Background(), "manifest.json")
	var ioErr *artifact.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Contains(t, err.Error(), "acme/shop:web/manifest.json")
	assert.False(t, artifact.IsNotFound(err))
}

func TestTree_CheckRoot(t *testing.T) {
	srv := &contentsServer{files: map[string]string{"web/index.html": "x"}}

	missing := newTestTree(t, srv, "", "dist")
	var ioErr *artifact.IOError
	require.ErrorAs(t, missing.Check(context.Background()), &ioErr)

	file := newTestTree(t, srv, "", "web/index.html")
	require.ErrorAs(t, file.Check(context.Background()), &ioErr)
	assert.Contains(t, ioErr.Error(), "not a directory")
}

func TestTree_RejectsEscapingPaths(t *testing.T) {
	tree := newTestTree(t, &contentsServer{}, "", "web")
	_, err := tree.ReadFile(context.Background(), "../secrets.txt")
	var ioErr *artifact.IOError
	require.ErrorAs(t, err, &ioErr)
}

func TestNewTree_InvalidRepository(t *testing.T) {
	c, err := NewClient(context.Background(), "")
	require.NoError(t, err)
	_, err = NewTree(c, "acme", "", "")
	assert.Error(t, err)
	_, err = NewTree(nil, "acme/shop", "", "")
	assert.Error(t, err)
}
