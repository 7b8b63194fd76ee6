package navtree

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the node in the same tuple form the viewer uses:
// ["label", "url", null | "ref" | [children...]].
func (n *Node) MarshalJSON() ([]byte, error) {
	var third any
	switch {
	case n.Children != nil:
		third = n.Children
	case n.Ref != "":
		third = n.Ref
	}
	return json.Marshal([]any{n.Label, n.URL, third})
}

// UnmarshalJSON decodes the tuple form written by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 || len(raw) > 3 {
		return fmt.Errorf("%w: expected 2 or 3 elements, got %d", ErrMalformed, len(raw))
	}

	var label string
	if err := json.Unmarshal(raw[0], &label); err != nil {
		return fmt.Errorf("label: %w", err)
	}
	var url *string
	if err := json.Unmarshal(raw[1], &url); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	*n = Node{Label: label}
	if url != nil {
		n.URL = *url
	}
	if len(raw) == 2 || string(raw[2]) == "null" {
		return nil
	}

	if len(raw[2]) > 0 && raw[2][0] == '"' {
		return json.Unmarshal(raw[2], &n.Ref)
	}
	children := []*Node{}
	if err := json.Unmarshal(raw[2], &children); err != nil {
		return fmt.Errorf("children: %w", err)
	}
	n.Children = children
	return nil
}
