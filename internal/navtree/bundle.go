package navtree

import "sort"

// Message keys understood by the documentation viewer.
const (
	SyncOnKey  = "SYNCONMSG"
	SyncOffKey = "SYNCOFFMSG"
)

// knownKeys fixes the emission order of the viewer's own messages.
var knownKeys = []string{SyncOnKey, SyncOffKey}

// Messages maps a message key to its display text.
type Messages map[string]string

// DefaultMessages returns the viewer's standard panel-sync toggle texts.
func DefaultMessages() Messages {
	return Messages{
		SyncOnKey:  "click to disable panel synchronisation",
		SyncOffKey: "click to enable panel synchronisation",
	}
}

// Keys returns the message keys in emission order: the viewer's known keys
// first, then any others sorted.
func (m Messages) Keys() []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// Index is the flat url list stored next to the tree. In the sharded
// layout it holds the first url of every index shard.
type Index []string

// Bundle is the content of one navtreedata.js file.
type Bundle struct {
	Tree     []*Node
	Index    Index
	Messages Messages
}

// Subtree is the content of an external subtree file.
type Subtree struct {
	Name  string
	Nodes []*Node
}

// Var returns the variable the subtree file declares.
func (s Subtree) Var() string { return RefVar(s.Name) }

// FileName returns the subtree file path relative to the output directory.
func (s Subtree) FileName() string { return s.Name + ".js" }
