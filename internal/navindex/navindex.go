// Package navindex builds and queries the sharded url lookup table that
// accompanies a navigation tree. Urls are sorted byte-wise and cut into
// fixed-size shards; the flat index stored in navtreedata.js holds the
// first url of each shard, so a viewer can find the shard for any url with
// a binary search and load only that file.
package navindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/navtree/internal/navtree"
)

// DefaultPageSize is the number of urls per shard.
const DefaultPageSize = 250

// ErrNotIndexed is returned by Lookup for urls the index does not cover.
var ErrNotIndexed = errors.New("url not indexed")

// Shard is one navtreeindexN.js file. Entries are sorted by url.
type Shard struct {
	Number  int
	Entries []navtree.IndexEntry
}

// FileName returns the shard's file name.
func (s Shard) FileName() string { return navtree.ShardFileName(s.Number) }

// Set is a complete sharded index.
type Set struct {
	Index  navtree.Index
	Shards []Shard
}

// Build indexes every node reachable through inline children. When a url
// occurs more than once the first node in tree order wins. A pageSize
// below 1 selects DefaultPageSize.
//
// A tree with a single root is indexed relative to that root, the way the
// viewer addresses it: the root is [] and its children start at [i].
func Build(nodes []*navtree.Node, pageSize int) *Set {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	seen := make(map[string]bool)
	var entries []navtree.IndexEntry
	_ = navtree.Walk(nodes, func(p navtree.Path, n *navtree.Node) error {
		if n.URL == "" || seen[n.URL] {
			return nil
		}
		seen[n.URL] = true
		entries = append(entries, navtree.IndexEntry{URL: n.URL, Path: indexPath(len(nodes), p)})
		return nil
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })

	set := &Set{Index: navtree.Index{}}
	for start := 0; start < len(entries); start += pageSize {
		end := min(start+pageSize, len(entries))
		set.Shards = append(set.Shards, Shard{
			Number:  len(set.Shards),
			Entries: entries[start:end],
		})
		set.Index = append(set.Index, entries[start].URL)
	}
	return set
}

func indexPath(roots int, p navtree.Path) navtree.Path {
	if roots != 1 {
		return p
	}
	return append(navtree.Path{}, p[1:]...)
}

// Trail returns the nodes along an index path, starting with the root of
// a single-root tree. It stops early if the path leaves the tree.
func Trail(nodes []*navtree.Node, p navtree.Path) []*navtree.Node {
	if len(nodes) == 1 {
		p = append(navtree.Path{0}, p...)
	}
	var trail []*navtree.Node
	for _, i := range p {
		if i < 0 || i >= len(nodes) || nodes[i] == nil {
			break
		}
		trail = append(trail, nodes[i])
		nodes = nodes[i].Children
	}
	return trail
}

// Len returns the number of indexed urls.
func (s *Set) Len() int {
	total := 0
	for _, sh := range s.Shards {
		total += len(sh.Entries)
	}
	return total
}

// Lookup returns the tree position of url. A url with a fragment that is
// not indexed itself falls back to its page.
func (s *Set) Lookup(url string) (navtree.Path, error) {
	if p, ok := s.lookup(url); ok {
		return p, nil
	}
	if page, frag := navtree.SplitURL(url); frag != "" {
		if p, ok := s.lookup(page); ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotIndexed, url)
}

func (s *Set) lookup(url string) (navtree.Path, bool) {
	i := sort.Search(len(s.Index), func(i int) bool { return s.Index[i] > url }) - 1
	if i < 0 || i >= len(s.Shards) {
		return nil, false
	}
	entries := s.Shards[i].Entries
	j := sort.Search(len(entries), func(j int) bool { return entries[j].URL >= url })
	if j < len(entries) && entries[j].URL == url {
		return entries[j].Path, true
	}
	return nil, false
}

// Missing returns the tree urls, in tree order, that Lookup cannot find.
func (s *Set) Missing(nodes []*navtree.Node) []string {
	var missing []string
	for _, url := range navtree.URLs(nodes) {
		if _, ok := s.lookup(url); !ok {
			missing = append(missing, url)
		}
	}
	return missing
}

// Missing returns the tree urls, in tree order, that do not appear in a
// flat index.
func Missing(nodes []*navtree.Node, index navtree.Index) []string {
	have := make(map[string]bool, len(index))
	for _, url := range index {
		have[url] = true
	}
	var missing []string
	for _, url := range navtree.URLs(nodes) {
		if !have[url] {
			missing = append(missing, url)
		}
	}
	return missing
}

// Load reads the shard files named by index from dir.
func Load(ctx context.Context, dir string, index navtree.Index) (*Set, error) {
	set := &Set{Index: index, Shards: make([]Shard, len(index))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for n := range index {
		n := n
		g.Go(func() error {
			f, err := os.Open(filepath.Join(dir, navtree.ShardFileName(n)))
			if err != nil {
				return fmt.Errorf("opening index shard %d: %w", n, err)
			}
			defer f.Close()
			entries, err := navtree.ParseShard(ctx, f, n)
			if err != nil {
				return err
			}
			set.Shards[n] = Shard{Number: n, Entries: entries}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}
