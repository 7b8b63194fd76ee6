package navtree

import (
	"errors"
	"fmt"
	"strings"
)

// Node is one entry in the documentation sidebar tree.
//
// A node is a leaf when it has neither inline children nor a Ref. Inline
// children are never empty; a node with an external Ref has its children
// stored in a separate subtree file named after Ref.
type Node struct {
	Label    string
	URL      string
	Children []*Node
	Ref      string
}

// Leaf returns a node without children.
func Leaf(label, url string) *Node {
	return &Node{Label: label, URL: url}
}

// Group returns a node whose children are stored inline.
func Group(label, url string, children ...*Node) *Node {
	return &Node{Label: label, URL: url, Children: children}
}

// External returns a node whose children live in the subtree named ref.
func External(label, url, ref string) *Node {
	return &Node{Label: label, URL: url, Ref: ref}
}

// IsLeaf reports whether the node has no children at all.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 && n.Ref == "" }

// IsExternal reports whether the node's children live in a subtree file.
func (n *Node) IsExternal() bool { return n.Ref != "" }

// HasChildren reports whether the node carries inline children.
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := &Node{Label: n.Label, URL: n.URL, Ref: n.Ref}
	if n.Children != nil {
		c.Children = CloneAll(n.Children)
	}
	return c
}

// CloneAll deep-copies a node list.
func CloneAll(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Path is the position of a node as a sequence of sibling indices,
// starting at the top-level list.
type Path []int

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (p Path) child(i int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// SkipChildren can be returned by a WalkFunc to skip a node's children.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each node visited by Walk.
type WalkFunc func(path Path, n *Node) error

// Walk visits nodes depth-first in pre-order. Only inline children are
// followed; external subtrees must be resolved first. Nil nodes are skipped.
func Walk(nodes []*Node, fn WalkFunc) error {
	return walk(nil, nodes, fn)
}

func walk(prefix Path, nodes []*Node, fn WalkFunc) error {
	for i, n := range nodes {
		if n == nil {
			continue
		}
		p := prefix.child(i)
		err := fn(p, n)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
		if err := walk(p, n.Children, fn); err != nil {
			return err
		}
	}
	return nil
}

// URLs returns every node url in tree order, duplicates included.
func URLs(nodes []*Node) []string {
	var urls []string
	_ = Walk(nodes, func(_ Path, n *Node) error {
		urls = append(urls, n.URL)
		return nil
	})
	return urls
}

// Refs returns the external subtree names referenced from nodes.
func Refs(nodes []*Node) []string {
	var refs []string
	_ = Walk(nodes, func(_ Path, n *Node) error {
		if n.Ref != "" {
			refs = append(refs, n.Ref)
		}
		return nil
	})
	return refs
}

// Count returns the number of nodes reachable through inline children.
func Count(nodes []*Node) int {
	total := 0
	_ = Walk(nodes, func(Path, *Node) error {
		total++
		return nil
	})
	return total
}

// SplitURL separates a url into its page path and fragment.
func SplitURL(url string) (page, fragment string) {
	if i := strings.IndexByte(url, '#'); i >= 0 {
		return url[:i], url[i+1:]
	}
	return url, ""
}
