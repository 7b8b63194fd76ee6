package navtree

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const (
	// TreeVar is the variable holding the navigation tree in navtreedata.js.
	TreeVar = "NAVTREE"
	// IndexVar is the variable holding the flat url index in navtreedata.js.
	IndexVar = "NAVTREEINDEX"

	dataIndent    = "  "
	subtreeIndent = "    "
)

// IndexEntry maps a url to the index path of its node.
type IndexEntry struct {
	URL  string
	Path Path
}

// ShardVar returns the variable declared by index shard number n.
func ShardVar(n int) string { return fmt.Sprintf("%s%d", IndexVar, n) }

// ShardFileName returns the file name of index shard number n.
func ShardFileName(n int) string { return fmt.Sprintf("navtreeindex%d.js", n) }

// DataFileName is the file holding the bundle.
const DataFileName = "navtreedata.js"

// Encoder writes navigation data in the layout the documentation viewer
// loads: JavaScript variable declarations holding array literals.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// EncodeBundle writes a navtreedata.js file.
func (e *Encoder) EncodeBundle(b *Bundle) error {
	if err := ValidateMessages(b.Messages); err != nil {
		return err
	}
	var sb strings.Builder
	writeTreeDecl(&sb, TreeVar, b.Tree, dataIndent)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "var %s =\n[\n", IndexVar)
	for i, url := range b.Index {
		if i > 0 {
			sb.WriteString(",\n")
		}
		writeQuoted(&sb, url, '"')
	}
	if len(b.Index) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("];")

	if keys := b.Messages.Keys(); len(keys) > 0 {
		sb.WriteString("\n\n")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "var %s = ", k)
			writeQuoted(&sb, b.Messages[k], '\'')
			sb.WriteString(";")
		}
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

// EncodeSubtree writes an external subtree file.
func (e *Encoder) EncodeSubtree(s Subtree) error {
	if err := ValidateRef(s.Name); err != nil {
		return err
	}
	var sb strings.Builder
	writeTreeDecl(&sb, s.Var(), s.Nodes, subtreeIndent)
	_, err := io.WriteString(e.w, sb.String())
	return err
}

// EncodeShard writes index shard number n. Entries are written in the
// order given.
func (e *Encoder) EncodeShard(n int, entries []IndexEntry) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "var %s =\n{\n", ShardVar(n))
	for i, ent := range entries {
		if i > 0 {
			sb.WriteString(",\n")
		}
		writeQuoted(&sb, ent.URL, '"')
		sb.WriteString(":[")
		for j, v := range ent.Path {
			if j > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprint(&sb, v)
		}
		sb.WriteString("]")
	}
	if len(entries) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("};")
	_, err := io.WriteString(e.w, sb.String())
	return err
}

// MarshalBundle returns the navtreedata.js encoding of b.
func MarshalBundle(b *Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).EncodeBundle(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTreeDecl(sb *strings.Builder, name string, nodes []*Node, step string) {
	fmt.Fprintf(sb, "var %s =\n[\n", name)
	writeNodes(sb, nodes, step, step)
	if len(nodes) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("];")
}

func writeNodes(sb *strings.Builder, nodes []*Node, indent, step string) {
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString(indent)
		sb.WriteString("[ ")
		writeQuoted(sb, n.Label, '"')
		sb.WriteString(", ")
		writeQuoted(sb, n.URL, '"')
		sb.WriteString(", ")
		switch {
		case n.Children != nil:
			sb.WriteString("[\n")
			writeNodes(sb, n.Children, indent+step, step)
			if len(n.Children) > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(indent)
			sb.WriteString("] ]")
		case n.Ref != "":
			writeQuoted(sb, n.Ref, '"')
			sb.WriteString(" ]")
		default:
			sb.WriteString("null ]")
		}
	}
}

// writeQuoted writes s as a JavaScript string literal delimited by quote.
func writeQuoted(sb *strings.Builder, s string, quote byte) {
	sb.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20, r == '\u2028', r == '\u2029':
			fmt.Fprintf(sb, `\u%04x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(quote)
}
