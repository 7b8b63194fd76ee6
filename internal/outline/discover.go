package outline

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// DiscoverOptions controls directory discovery.
type DiscoverOptions struct {
	Include []string // Glob patterns; empty means every .md and .html page.
	Exclude []string // Glob patterns matched against slash-separated relative paths.
	Title   string   // Root label; empty leaves the pages at the top level.
}

// Discover walks docsDir and builds an outline with one entry per page.
// Directories come first, then pages, each sorted by name. Markdown pages
// link to the .html file they are rendered to.
func Discover(docsDir string, opts DiscoverOptions) (*Outline, error) {
	include := opts.Include
	if len(include) == 0 {
		include = []string{"**/*.md", "**/*.html"}
	}

	var paths []string
	titles := make(map[string]string)
	err := filepath.WalkDir(docsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(docsDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && matchesAny(rel+"/", opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isPage(rel) || !matchesAny(rel, include) || matchesAny(rel, opts.Exclude) {
			return nil
		}
		paths = append(paths, rel)

		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if title := ExtractTitle(rel, content); title != "" {
			titles[rel] = title
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking docs dir: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no pages found in %s", docsDir)
	}

	o := &Outline{Title: opts.Title}
	entries := BuildEntries(paths, titles)
	if opts.Title != "" {
		o.URL, entries = takeIndex(entries)
	}
	o.Entries = entries
	return o, nil
}

// takeIndex removes the top-level index page from entries and returns its
// url, so that it can link the root node.
func takeIndex(entries []Entry) (string, []Entry) {
	for i, e := range entries {
		if e.Children == nil && e.URL == "index.html" {
			return e.URL, append(entries[:i:i], entries[i+1:]...)
		}
	}
	return "index.html", entries
}

// fileTree is a directory node used while grouping paths.
type fileTree struct {
	name     string
	dir      string
	page     string // relative page path, files only
	isDir    bool
	children []*fileTree
}

// BuildEntries groups relative page paths into nested entries.
// titles maps a relative path to its display label.
func BuildEntries(paths []string, titles map[string]string) []Entry {
	root := &fileTree{isDir: true}

	for _, p := range paths {
		p = filepath.ToSlash(p)
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *fileTree
			for _, child := range current.children {
				if child.name == part && child.isDir != isLast {
					next = child
					break
				}
			}
			if next == nil {
				next = &fileTree{name: part, isDir: !isLast}
				if isLast {
					next.page = p
				} else {
					next.dir = strings.Join(parts[:i+1], "/")
				}
				current.children = append(current.children, next)
			}
			current = next
		}
	}

	sortTree(root)
	return toEntries(root.children, titles)
}

// sortTree recursively sorts tree children: directories first, then files, alphabetically.
func sortTree(node *fileTree) {
	sort.Slice(node.children, func(i, j int) bool {
		if node.children[i].isDir != node.children[j].isDir {
			return node.children[i].isDir
		}
		return node.children[i].name < node.children[j].name
	})
	for _, child := range node.children {
		if child.isDir {
			sortTree(child)
		}
	}
}

func toEntries(nodes []*fileTree, titles map[string]string) []Entry {
	var entries []Entry
	for _, n := range nodes {
		if !n.isDir {
			label := titles[n.page]
			if label == "" {
				label = cleanDisplayName(n.name)
			}
			entries = append(entries, Entry{Label: label, URL: PageURL(n.page)})
			continue
		}

		children := toEntries(n.children, titles)
		if len(children) == 0 {
			continue
		}
		e := Entry{Label: formatDirName(n.name)}
		// A directory links to its index page, which then leaves the list.
		for i, c := range children {
			if c.Children == nil && c.URL == n.dir+"/index.html" {
				e.URL = c.URL
				if c.Label != "index" {
					e.Label = c.Label
				}
				children = append(children[:i:i], children[i+1:]...)
				break
			}
		}
		if e.URL == "" {
			e.URL = children[0].URL
		}
		if len(children) > 0 {
			e.Children = children
		}
		entries = append(entries, e)
	}
	return entries
}

// PageURL converts a source page path to the url of its rendered page.
func PageURL(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// cleanDisplayName strips the page extension.
func cleanDisplayName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

// formatDirName converts a directory name to a human-readable display name.
func formatDirName(name string) string {
	// Title-case each word separated by hyphens or underscores.
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func isPage(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md", ".html", ".htm":
		return true
	}
	return false
}

// matchesAny checks if rel matches any of the given glob patterns.
// It uses doublestar for ** support.
func matchesAny(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// Directory patterns such as "drafts/**" also match the directory itself.
		if strings.HasSuffix(rel, "/") {
			if ok, _ := doublestar.Match(pattern, strings.TrimSuffix(rel, "/")); ok {
				return true
			}
		}
	}
	return false
}

// ExtractTitle returns the display title of a page: the first level-one
// heading of a markdown page or the <title> of an HTML page.
func ExtractTitle(rel string, content []byte) string {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md":
		return markdownTitle(content)
	case ".html", ".htm":
		return htmlTitle(content)
	}
	return ""
}

func markdownTitle(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			var b strings.Builder
			inlineText(&b, h, src)
			title = strings.TrimSpace(b.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func inlineText(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			inlineText(b, c, src)
		}
	}
}

func htmlTitle(src []byte) string {
	z := html.NewTokenizer(bytes.NewReader(src))
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = string(name) == "title"
		case html.EndTagToken:
			inTitle = false
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text()))
			}
		}
	}
}
