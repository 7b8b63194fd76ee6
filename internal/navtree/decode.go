package navtree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dop251/goja"
)

// DefaultEvalTimeout bounds how long a single file may take to evaluate.
const DefaultEvalTimeout = 5 * time.Second

var (
	ErrMissingVar = errors.New("variable not declared")
	ErrMalformed  = errors.New("malformed navigation data")
)

// Document holds the top-level variables declared by a navigation file,
// exported to plain Go values: strings, nil, int64/float64, []any and
// map[string]any.
type Document struct {
	Vars map[string]any
}

// Decode evaluates src in an isolated JavaScript runtime and collects its
// global variable declarations. Evaluation is interrupted when ctx is done
// or after DefaultEvalTimeout.
func Decode(ctx context.Context, src []byte) (*Document, error) {
	vm := goja.New()

	ctx, cancel := context.WithTimeout(ctx, DefaultEvalTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	if _, err := vm.RunString(string(src)); err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("evaluating navigation data: %w", ctx.Err())
		}
		return nil, fmt.Errorf("evaluating navigation data: %w", err)
	}

	global := vm.GlobalObject()
	doc := &Document{Vars: make(map[string]any)}
	for _, key := range global.Keys() {
		v := global.Get(key)
		if v == nil || goja.IsUndefined(v) {
			continue
		}
		doc.Vars[key] = v.Export()
	}
	return doc, nil
}

// Tree converts the array declared as name into nodes.
func (d *Document) Tree(name string) ([]*Node, error) {
	v, ok := d.Vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingVar, name)
	}
	nodes, err := toNodes(v, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return nodes, nil
}

// Strings converts the array declared as name into a string list.
func (d *Document) Strings(name string) ([]string, error) {
	v, ok := d.Vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingVar, name)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: expected array, got %T", name, ErrMalformed, v)
	}
	out := make([]string, len(arr))
	for i, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: %w: expected string, got %T", name, i, ErrMalformed, item)
		}
		out[i] = s
	}
	return out, nil
}

// ParseBundle reads a navtreedata.js file. The tree declaration is
// required; a missing index is treated as empty. Every other top-level
// string variable becomes a UI message.
func ParseBundle(ctx context.Context, r io.Reader) (*Bundle, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading navigation data: %w", err)
	}
	doc, err := Decode(ctx, src)
	if err != nil {
		return nil, err
	}

	tree, err := doc.Tree(TreeVar)
	if err != nil {
		return nil, err
	}
	b := &Bundle{Tree: tree, Messages: Messages{}}

	if _, ok := doc.Vars[IndexVar]; ok {
		idx, err := doc.Strings(IndexVar)
		if err != nil {
			return nil, err
		}
		b.Index = idx
	}

	for k, v := range doc.Vars {
		if s, ok := v.(string); ok {
			b.Messages[k] = s
		}
	}
	return b, nil
}

// ParseSubtree reads the external subtree file for ref.
func ParseSubtree(ctx context.Context, r io.Reader, ref string) (Subtree, error) {
	if err := ValidateRef(ref); err != nil {
		return Subtree{}, err
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return Subtree{}, fmt.Errorf("reading subtree %s: %w", ref, err)
	}
	doc, err := Decode(ctx, src)
	if err != nil {
		return Subtree{}, fmt.Errorf("subtree %s: %w", ref, err)
	}
	nodes, err := doc.Tree(RefVar(ref))
	if err != nil {
		return Subtree{}, fmt.Errorf("subtree %s: %w", ref, err)
	}
	return Subtree{Name: ref, Nodes: nodes}, nil
}

// ParseShard reads index shard number n and returns its entries sorted by
// url.
func ParseShard(ctx context.Context, r io.Reader, n int) ([]IndexEntry, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading index shard %d: %w", n, err)
	}
	doc, err := Decode(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("index shard %d: %w", n, err)
	}
	name := ShardVar(n)
	v, ok := doc.Vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingVar, name)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: expected object, got %T", name, ErrMalformed, v)
	}

	entries := make([]IndexEntry, 0, len(obj))
	for url, raw := range obj {
		arr, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("%s[%q]: %w: expected array, got %T", name, url, ErrMalformed, raw)
		}
		path := make(Path, len(arr))
		for i, item := range arr {
			idx, ok := toInt(item)
			if !ok {
				return nil, fmt.Errorf("%s[%q][%d]: %w: expected integer, got %v", name, url, i, ErrMalformed, item)
			}
			path[i] = idx
		}
		entries = append(entries, IndexEntry{URL: url, Path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })
	return entries, nil
}

func toNodes(v any, prefix Path) ([]*Node, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array at %s, got %T", ErrMalformed, prefix, v)
	}
	nodes := make([]*Node, 0, len(arr))
	for i, item := range arr {
		n, err := toNode(item, prefix.child(i))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func toNode(v any, path Path) (*Node, error) {
	entry, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: node %s: expected array, got %T", ErrMalformed, path, v)
	}
	if len(entry) < 2 || len(entry) > 3 {
		return nil, fmt.Errorf("%w: node %s: expected 2 or 3 elements, got %d", ErrMalformed, path, len(entry))
	}
	label, ok := entry[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: node %s: label must be a string, got %T", ErrMalformed, path, entry[0])
	}
	n := &Node{Label: label}
	switch url := entry[1].(type) {
	case string:
		n.URL = url
	case nil:
	default:
		return nil, fmt.Errorf("%w: node %s: url must be a string, got %T", ErrMalformed, path, entry[1])
	}
	if len(entry) == 2 {
		return n, nil
	}

	switch children := entry[2].(type) {
	case nil:
	case string:
		n.Ref = children
	case []any:
		kids, err := toNodes(children, path)
		if err != nil {
			return nil, err
		}
		n.Children = kids
	default:
		return nil, fmt.Errorf("%w: node %s: children must be null, a string or an array, got %T", ErrMalformed, path, entry[2])
	}
	return n, nil
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int64:
		return int(x), true
	case int:
		return x, true
	case float64:
		if x == float64(int(x)) {
			return int(x), true
		}
	}
	return 0, false
}
