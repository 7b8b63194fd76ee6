// Package outline turns hand-written YAML outlines and directories of
// documentation pages into navigation trees.
package outline

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/navtree/internal/navtree"
)

// Entry is one outline item. Children and Ref are mutually exclusive.
type Entry struct {
	Label    string  `yaml:"label"`
	URL      string  `yaml:"url"`
	Ref      string  `yaml:"ref,omitempty"`
	Children []Entry `yaml:"children,omitempty"`
}

// Outline describes a navigation tree. When Title is set the entries are
// nested under a single root node labelled Title and linked to URL.
type Outline struct {
	Title    string            `yaml:"title"`
	URL      string            `yaml:"url"`
	Messages map[string]string `yaml:"messages,omitempty"`
	Entries  []Entry           `yaml:"nodes"`
}

// Options control how an outline becomes a tree.
type Options struct {
	// HashSubdirs prefixes bare page urls with their hashed subdirectory.
	HashSubdirs bool
}

// Load reads an outline from a YAML file.
func Load(path string) (*Outline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening outline: %w", err)
	}
	defer f.Close()
	o, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("outline %s: %w", path, err)
	}
	return o, nil
}

// Parse decodes a YAML outline.
func Parse(r io.Reader) (*Outline, error) {
	var o Outline
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if err == io.EOF {
			return &o, nil
		}
		return nil, fmt.Errorf("decoding outline: %w", err)
	}
	if err := navtree.ValidateMessages(o.Messages); err != nil {
		return nil, fmt.Errorf("outline messages: %w", err)
	}
	return &o, nil
}

// Tree converts the outline into navigation nodes. The result is not
// validated; callers run navtree.Validate.
func (o *Outline) Tree(opts Options) []*navtree.Node {
	nodes := convert(o.Entries, opts)
	if o.Title == "" {
		return nodes
	}
	root := navtree.Group(o.Title, o.URL, nodes...)
	if len(nodes) == 0 {
		root.Children = nil
	}
	return []*navtree.Node{root}
}

func convert(entries []Entry, opts Options) []*navtree.Node {
	if entries == nil {
		return nil
	}
	nodes := make([]*navtree.Node, len(entries))
	for i, e := range entries {
		url := e.URL
		if opts.HashSubdirs {
			url = navtree.HashedURL(url)
		}
		nodes[i] = &navtree.Node{
			Label:    e.Label,
			URL:      url,
			Ref:      e.Ref,
			Children: convert(e.Children, opts),
		}
	}
	return nodes
}

// FromTree converts navigation nodes back into outline entries.
func FromTree(nodes []*navtree.Node) []Entry {
	if nodes == nil {
		return nil
	}
	entries := make([]Entry, len(nodes))
	for i, n := range nodes {
		entries[i] = Entry{
			Label:    n.Label,
			URL:      n.URL,
			Ref:      n.Ref,
			Children: FromTree(n.Children),
		}
	}
	return entries
}

// Save writes the outline as YAML.
func (o *Outline) Save(path string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshalling outline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing outline to %s: %w", path, err)
	}
	return nil
}
