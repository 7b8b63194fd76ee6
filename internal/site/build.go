package site

import (
	"fmt"

	"github.com/ziadkadry99/navtree/internal/navindex"
	"github.com/ziadkadry99/navtree/internal/navtree"
)

// Output is everything written to a documentation output directory.
type Output struct {
	Bundle   *navtree.Bundle
	Subtrees []navtree.Subtree
	Shards   []navindex.Shard
}

// Files returns the number of files the output consists of.
func (o *Output) Files() int {
	return 1 + len(o.Subtrees) + len(o.Shards)
}

// BuildOptions control how a tree is laid out on disk.
type BuildOptions struct {
	PageSize   int // urls per index shard; 0 selects the default
	SplitDepth int // inline levels kept in navtreedata.js; 0 keeps the whole tree inline
	Messages   navtree.Messages
}

// Build validates a fully inline tree and lays it out as a data file,
// external subtree files and index shards. Index positions always refer
// to the full tree, whichever file a node ends up in.
func Build(tree []*navtree.Node, opts BuildOptions) (*Output, error) {
	if err := navtree.Validate(tree); err != nil {
		return nil, fmt.Errorf("invalid navigation tree: %w", err)
	}
	if refs := navtree.Refs(tree); len(refs) > 0 {
		return nil, fmt.Errorf("tree references %d external subtrees (first %q); resolve them before building", len(refs), refs[0])
	}

	set := navindex.Build(tree, opts.PageSize)

	data := tree
	var subtrees []navtree.Subtree
	if opts.SplitDepth > 0 {
		data, subtrees = navtree.Split(tree, opts.SplitDepth)
	}

	messages := opts.Messages
	if messages == nil {
		messages = navtree.DefaultMessages()
	}
	if err := navtree.ValidateMessages(messages); err != nil {
		return nil, err
	}

	return &Output{
		Bundle: &navtree.Bundle{
			Tree:     data,
			Index:    set.Index,
			Messages: messages,
		},
		Subtrees: subtrees,
		Shards:   set.Shards,
	}, nil
}
