package outline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/navtree/internal/navtree"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestBuildEntries(t *testing.T) {
	paths := []string{
		"index.md",
		"usage.md",
		"library/dataset.md",
		"library/index.md",
		"library/stats/quantile.md",
		"about.html",
	}
	titles := map[string]string{
		"library/index.md":   "Library reference",
		"library/dataset.md": "Dataset manipulation",
	}

	entries := BuildEntries(paths, titles)
	require.Len(t, entries, 4)

	// Directories first.
	lib := entries[0]
	assert.Equal(t, "Library reference", lib.Label)
	assert.Equal(t, "library/index.html", lib.URL)
	require.Len(t, lib.Children, 2)
	assert.Equal(t, "Stats", lib.Children[0].Label)
	assert.Equal(t, "library/stats/quantile.html", lib.Children[0].URL, "directory without index links its first page")
	assert.Equal(t, "Dataset manipulation", lib.Children[1].Label)

	// Then files, alphabetically.
	assert.Equal(t, "about.html", entries[1].URL)
	assert.Equal(t, "index.html", entries[2].URL)
	assert.Equal(t, "usage", entries[3].Label)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"index.md":                "# PING\n\nWelcome.",
		"mainpage_about.md":       "Intro text\n\n# About *the* project\n",
		"library/quantile.html":   "<html><head><title> quantile </title></head><body></body></html>",
		"library/notes.txt":       "ignored",
		"drafts/wip.md":           "# WIP",
		"library/drafts/old.md":   "# Old",
		"search/search_page.html": "<title>search</title>",
	})

	o, err := Discover(dir, DiscoverOptions{
		Exclude: []string{"**/drafts/**", "search/**"},
		Title:   "PING",
	})
	require.NoError(t, err)

	assert.Equal(t, "PING", o.Title)
	assert.Equal(t, "index.html", o.URL)
	require.Len(t, o.Entries, 2)

	lib := o.Entries[0]
	assert.Equal(t, "Library", lib.Label)
	assert.Equal(t, "library/quantile.html", lib.URL)
	require.Len(t, lib.Children, 1)
	assert.Equal(t, "quantile", lib.Children[0].Label)

	about := o.Entries[1]
	assert.Equal(t, "About the project", about.Label)
	assert.Equal(t, "mainpage_about.html", about.URL)

	assert.NoError(t, navtree.Validate(o.Tree(Options{})))
}

func TestDiscoverNoPages(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"readme.txt": "x"})
	_, err := Discover(dir, DiscoverOptions{})
	assert.Error(t, err)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name, rel, content, want string
	}{
		{"markdown h1", "a.md", "# Hello `code` world\n", "Hello code world"},
		{"markdown setext", "a.md", "Title\n=====\n", "Title"},
		{"markdown h2 only", "a.md", "## Sub\n", ""},
		{"html title", "a.html", "<title>Page &amp; more</title>", "Page & more"},
		{"html no title", "a.html", "<p>x</p>", ""},
		{"other", "a.txt", "# x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle(tt.rel, []byte(tt.content)))
		})
	}
}

func TestPageURLAndNames(t *testing.T) {
	assert.Equal(t, "cmd/root.html", PageURL("cmd/root.md"))
	assert.Equal(t, "a.html", PageURL("a.html"))
	assert.Equal(t, "File System", formatDirName("file_system"))
	assert.Equal(t, "Geo Demography", formatDirName("geo-demography"))
	assert.Equal(t, "config.go", cleanDisplayName("config.go.md"))
}
