package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/navtree/internal/navindex"
	"github.com/ziadkadry99/navtree/internal/navtree"
)

// Site is a navigation index read back from an output directory.
type Site struct {
	Dir    string
	Bundle *navtree.Bundle
	// Tree is the bundle tree with every external subtree inlined.
	Tree []*navtree.Node
	// Index is nil when the directory carries no shard files.
	Index *navindex.Set
}

// Load reads navtreedata.js from dir, resolves its external subtrees and
// loads the index shards named by its flat index, when present.
func Load(ctx context.Context, dir string) (*Site, error) {
	f, err := os.Open(filepath.Join(dir, navtree.DataFileName))
	if err != nil {
		return nil, fmt.Errorf("opening navigation data: %w", err)
	}
	defer f.Close()

	bundle, err := navtree.ParseBundle(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", navtree.DataFileName, err)
	}

	tree, err := navtree.Resolve(ctx, bundle.Tree, navtree.DirLoader{Dir: dir})
	if err != nil {
		return nil, fmt.Errorf("resolving subtrees: %w", err)
	}

	s := &Site{Dir: dir, Bundle: bundle, Tree: tree}
	if len(bundle.Index) > 0 && HasShards(dir) {
		set, err := navindex.Load(ctx, dir, bundle.Index)
		if err != nil {
			return nil, fmt.Errorf("loading index: %w", err)
		}
		s.Index = set
	}
	return s, nil
}

// HasShards reports whether dir contains the first index shard.
func HasShards(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, navtree.ShardFileName(0)))
	return err == nil
}

// Missing returns the tree urls that the site's index does not cover: by
// shard lookup when shards are present, against the flat index otherwise.
func (s *Site) Missing() []string {
	if s.Index != nil {
		return s.Index.Missing(s.Tree)
	}
	return navindex.Missing(s.Tree, s.Bundle.Index)
}
