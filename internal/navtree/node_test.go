package navtree

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkOrderAndPaths(t *testing.T) {
	tree := sampleBundle().Tree

	var labels []string
	var paths []string
	err := Walk(tree, func(p Path, n *Node) error {
		labels = append(labels, n.Label)
		paths = append(paths, p.String())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PING", "About...", "quantile", "Guides", "Install", "Modules"}, labels)
	assert.Equal(t, []string{"[0]", "[0,0]", "[0,1]", "[0,2]", "[0,2,0]", "[0,3]"}, paths)
}

func TestWalkSkipChildrenAndStop(t *testing.T) {
	tree := sampleBundle().Tree

	var seen []string
	_ = Walk(tree, func(_ Path, n *Node) error {
		seen = append(seen, n.Label)
		if n.Label == "Guides" {
			return SkipChildren
		}
		return nil
	})
	assert.NotContains(t, seen, "Install")

	stop := errors.New("stop")
	err := Walk(tree, func(_ Path, n *Node) error {
		if n.Label == "quantile" {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
}

func TestURLsRefsCount(t *testing.T) {
	tree := sampleBundle().Tree
	assert.Equal(t, []string{
		"index.html",
		"d3/df9/mainpage_about.html",
		"d6/d70/quantile.html",
		"d1/d00/guides.html",
		"d1/d01/install.html#linux",
		"modules.html",
	}, URLs(tree))
	assert.Equal(t, []string{"d6/d70/quantile", "modules"}, Refs(tree))
	assert.Equal(t, 6, Count(tree))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want error
	}{
		{"empty label", Leaf(" ", "a.html"), ErrEmptyLabel},
		{"empty url", Leaf("A", ""), ErrEmptyURL},
		{"empty children", &Node{Label: "A", URL: "a.html", Children: []*Node{}}, ErrEmptyChildren},
		{"mixed", &Node{Label: "A", URL: "a.html", Children: []*Node{Leaf("B", "b.html")}, Ref: "a"}, ErrMixedChildren},
		{"absolute url", Leaf("A", "/a.html"), ErrAbsoluteURL},
		{"remote url", Leaf("A", "https://example.com/a.html"), ErrAbsoluteURL},
		{"parent url", Leaf("A", "../a.html"), ErrAbsoluteURL},
		{"bad ref", External("A", "a.html", "../x"), ErrBadRef},
		{"ref not identifier", External("A", "a.html", "d1/my-page"), ErrBadRef},
		{"ref overwrites data file", External("A", "a.html", "navtreedata"), ErrBadRef},
		{"ref overwrites shard", External("A", "a.html", "navtreeindex3"), ErrBadRef},
		{"ref redeclares tree", External("A", "a.html", "d1/NAVTREE"), ErrBadRef},
		{"nil node", nil, ErrNilNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]*Node{Group("Root", "index.html", tt.node)})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var nodeErr *NodeError
			require.ErrorAs(t, err, &nodeErr)
			assert.Equal(t, Path{0, 0}, nodeErr.Path)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := Validate([]*Node{Leaf("", ""), Leaf("ok", "ok.html"), Leaf("B", "/b.html")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyLabel)
	assert.ErrorIs(t, err, ErrEmptyURL)
	assert.ErrorIs(t, err, ErrAbsoluteURL)
}

func TestValidateSample(t *testing.T) {
	assert.NoError(t, Validate(sampleBundle().Tree))
	assert.NoError(t, Validate(nil))
}

func TestSplitURL(t *testing.T) {
	page, frag := SplitURL("d0/d04/group___geo.html#ga12")
	assert.Equal(t, "d0/d04/group___geo.html", page)
	assert.Equal(t, "ga12", frag)

	page, frag = SplitURL("index.html")
	assert.Equal(t, "index.html", page)
	assert.Empty(t, frag)
}

func TestSplitAndResolve(t *testing.T) {
	tree := []*Node{
		Group("PING", "index.html",
			Leaf("About", "d3/df9/about.html"),
			Group("quantile", "d6/d70/quantile.html",
				Leaf("Usage", "d6/d70/quantile.html#usage"),
				Group("Deep", "d1/d02/deep.html",
					Leaf("Deeper", "d1/d03/deeper.html"),
				),
			),
			Group("Modules", "modules.html",
				Leaf("Geo", "d0/d04/group___geo.html"),
			),
		),
	}

	trimmed, subtrees := Split(tree, 2)
	require.Len(t, subtrees, 3)
	assert.Equal(t, "d6/d70/quantile", subtrees[0].Name)
	assert.Equal(t, "d1/d02/deep", subtrees[1].Name)
	assert.Equal(t, "modules", subtrees[2].Name)

	root := trimmed[0]
	assert.Equal(t, "d6/d70/quantile", root.Children[1].Ref)
	assert.Nil(t, root.Children[1].Children)
	assert.Equal(t, "modules", root.Children[2].Ref)
	assert.Equal(t, "d1/d02/deep", subtrees[0].Nodes[1].Ref)

	// Split must not mutate its input.
	assert.Empty(t, tree[0].Children[1].Ref)
	assert.NoError(t, Validate(trimmed))

	loader := MapLoader{}
	for _, s := range subtrees {
		loader[s.Name] = s.Nodes
	}
	resolved, err := Resolve(context.Background(), trimmed, loader)
	require.NoError(t, err)
	assert.Equal(t, tree, resolved)
}

func TestSplitNameCollisionsAndIdentifiers(t *testing.T) {
	tree := []*Node{
		Group("A", "dup.html", Leaf("x", "x.html")),
		Group("B", "dup.html#other", Leaf("y", "y.html")),
		Group("C", "5-minute-intro.html", Leaf("z", "z.html")),
	}
	_, subtrees := Split(tree, 0)
	require.Len(t, subtrees, 3)
	assert.Equal(t, "dup", subtrees[0].Name)
	assert.Equal(t, "dup_2", subtrees[1].Name)
	assert.Equal(t, "_5_minute_intro", subtrees[2].Name)
	for _, s := range subtrees {
		assert.NoError(t, ValidateRef(s.Name))
	}
}

func TestSplitAvoidsGeneratedFileNames(t *testing.T) {
	tree := []*Node{
		Group("Data", "navtreedata.html", Leaf("x", "x.html")),
		Group("Shard", "navtreeindex0.html", Leaf("y", "y.html")),
		Group("Nested", "d1/navtreedata.html", Leaf("z", "z.html")),
	}
	_, subtrees := Split(tree, 0)
	require.Len(t, subtrees, 3)
	assert.Equal(t, "navtreedata_2", subtrees[0].Name)
	assert.Equal(t, "navtreeindex0_2", subtrees[1].Name)
	assert.Equal(t, "d1/navtreedata", subtrees[2].Name)
	for _, s := range subtrees {
		assert.NoError(t, ValidateRef(s.Name))
	}

	_, subtrees = Split([]*Node{Group("T", "NAVTREE.html", Leaf("x", "x.html"))}, 0)
	require.Len(t, subtrees, 1)
	assert.Equal(t, "NAVTREE_2", subtrees[0].Name)
}

func TestWalkSkipsNilNodes(t *testing.T) {
	tree := []*Node{Group("A", "a.html", nil, Leaf("B", "b.html")), nil}
	assert.Equal(t, 2, Count(tree))
	assert.Empty(t, Refs(tree))
	assert.Equal(t, []string{"a.html", "b.html"}, URLs(tree))
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Resolve(ctx, []*Node{External("A", "a.html", "missing")}, MapLoader{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	cyclic := MapLoader{
		"a": {External("B", "b.html", "b")},
		"b": {External("A", "a.html", "a")},
	}
	_, err = Resolve(ctx, []*Node{External("A", "a.html", "a")}, cyclic)
	assert.ErrorIs(t, err, ErrCycle)

	_, err = Resolve(ctx, []*Node{External("A", "a.html", "a")}, MapLoader{"a": {}})
	assert.ErrorIs(t, err, ErrEmptyChildren)
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "d6", "d70"), 0o755))
	src := "var quantile =\n[\n    [ \"Usage\", \"d6/d70/quantile.html#usage\", null ]\n];"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d6", "d70", "quantile.js"), []byte(src), 0o644))

	resolved, err := Resolve(context.Background(),
		[]*Node{External("quantile", "d6/d70/quantile.html", "d6/d70/quantile")},
		DirLoader{Dir: dir})
	require.NoError(t, err)
	require.Len(t, resolved[0].Children, 1)
	assert.Equal(t, "Usage", resolved[0].Children[0].Label)
	assert.Empty(t, resolved[0].Ref)
}

func TestSubdir(t *testing.T) {
	pattern := regexp.MustCompile(`^d[0-9a-f]/d[0-9a-f]{2}/$`)
	for _, page := range []string{"mainpage_about.html", "quantile.html", "x"} {
		got := Subdir(page)
		assert.Regexp(t, pattern, got)
		assert.Equal(t, got, Subdir(page), "subdir must be deterministic")
	}
	assert.Equal(t, Subdir("quantile.html"), Subdir("quantile.md"))

	assert.Equal(t, Subdir("a.html")+"a.html#top", HashedURL("a.html#top"))
	assert.Equal(t, "d1/d02/a.html", HashedURL("d1/d02/a.html"))
}

func TestMessagesKeys(t *testing.T) {
	m := Messages{"Z": "z", SyncOffKey: "off", "A": "a", SyncOnKey: "on"}
	assert.Equal(t, []string{SyncOnKey, SyncOffKey, "A", "Z"}, m.Keys())
	assert.Empty(t, Messages(nil).Keys())
}

func TestValidateMessages(t *testing.T) {
	assert.NoError(t, ValidateMessages(DefaultMessages()))
	assert.NoError(t, ValidateMessages(nil))

	for _, key := range []string{"SYNC-ON", "", "1ST", "NAVTREE", "NAVTREEINDEX2"} {
		assert.ErrorIs(t, ValidateMessages(Messages{key: "x"}), ErrBadMessageKey, key)
	}
}
