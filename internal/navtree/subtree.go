package navtree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ErrCycle is returned when subtree references form a loop.
var ErrCycle = errors.New("subtree reference cycle")

// resolveParallelism bounds concurrent loads per sibling list.
const resolveParallelism = 8

// Loader fetches external subtrees by ref.
type Loader interface {
	Load(ctx context.Context, ref string) (Subtree, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, ref string) (Subtree, error)

func (f LoaderFunc) Load(ctx context.Context, ref string) (Subtree, error) { return f(ctx, ref) }

// DirLoader reads subtree files from a documentation output directory.
type DirLoader struct {
	Dir string
}

func (l DirLoader) Load(ctx context.Context, ref string) (Subtree, error) {
	if err := ValidateRef(ref); err != nil {
		return Subtree{}, err
	}
	f, err := os.Open(filepath.Join(l.Dir, filepath.FromSlash(ref)+".js"))
	if err != nil {
		return Subtree{}, fmt.Errorf("opening subtree %s: %w", ref, err)
	}
	defer f.Close()
	return ParseSubtree(ctx, f, ref)
}

// MapLoader serves subtrees from memory.
type MapLoader map[string][]*Node

func (m MapLoader) Load(_ context.Context, ref string) (Subtree, error) {
	nodes, ok := m[ref]
	if !ok {
		return Subtree{}, fmt.Errorf("subtree %s: %w", ref, os.ErrNotExist)
	}
	return Subtree{Name: ref, Nodes: nodes}, nil
}

// Resolve returns a copy of nodes in which every external reference has
// been replaced by the loaded subtree, recursively. Sibling subtrees are
// loaded concurrently.
func Resolve(ctx context.Context, nodes []*Node, loader Loader) ([]*Node, error) {
	out := CloneAll(nodes)
	if err := resolve(ctx, out, loader, nil, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func resolve(ctx context.Context, nodes []*Node, loader Loader, prefix Path, chain []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveParallelism)

	for i, n := range nodes {
		n := n
		p := prefix.child(i)
		switch {
		case n.Ref != "":
			g.Go(func() error {
				if slices.Contains(chain, n.Ref) {
					loop := strings.Join(append(slices.Clone(chain), n.Ref), " -> ")
					return &NodeError{Path: p, Err: fmt.Errorf("%w: %s", ErrCycle, loop)}
				}
				sub, err := loader.Load(ctx, n.Ref)
				if err != nil {
					return &NodeError{Path: p, Err: err}
				}
				if len(sub.Nodes) == 0 {
					return &NodeError{Path: p, Err: fmt.Errorf("subtree %s: %w", n.Ref, ErrEmptyChildren)}
				}
				kids := CloneAll(sub.Nodes)
				if err := resolve(ctx, kids, loader, p, append(slices.Clone(chain), n.Ref)); err != nil {
					return err
				}
				n.Children = kids
				n.Ref = ""
				return nil
			})
		case len(n.Children) > 0:
			g.Go(func() error {
				return resolve(ctx, n.Children, loader, p, chain)
			})
		}
	}
	return g.Wait()
}

// Split keeps depth levels of inline children in the returned tree and
// moves everything deeper into external subtrees, one level per subtree,
// the way the viewer loads them lazily. A depth below 1 is treated as 1.
// Subtrees are returned in tree order.
func Split(nodes []*Node, depth int) ([]*Node, []Subtree) {
	if depth < 1 {
		depth = 1
	}
	s := &splitter{used: make(map[string]bool)}
	out := CloneAll(nodes)
	s.cut(out, 1, depth)
	return out, s.subtrees
}

type splitter struct {
	used     map[string]bool
	subtrees []Subtree
}

func (s *splitter) cut(nodes []*Node, level, depth int) {
	for _, n := range nodes {
		if len(n.Children) == 0 {
			continue
		}
		if level < depth {
			s.cut(n.Children, level+1, depth)
			continue
		}
		name := s.name(n.URL)
		kids := n.Children
		n.Children = nil
		n.Ref = name
		idx := len(s.subtrees)
		s.subtrees = append(s.subtrees, Subtree{Name: name})
		s.cut(kids, 1, 1)
		s.subtrees[idx].Nodes = kids
	}
}

// name derives a unique subtree name from the page url:
// "d6/d70/quantile.html#top" becomes "d6/d70/quantile".
func (s *splitter) name(url string) string {
	page, _ := SplitURL(url)
	page = strings.TrimSuffix(page, path.Ext(page))
	dir, base := path.Split(page)
	base = identifier(base)
	candidate := dir + base
	for i := 2; s.used[candidate] || reservedRef(candidate); i++ {
		candidate = fmt.Sprintf("%s%s_%d", dir, base, i)
	}
	s.used[candidate] = true
	return candidate
}

// identifier maps s onto a valid JavaScript identifier.
func identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_' || r == '$', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "subtree"
	}
	return b.String()
}
