package navtree

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyLabel    = errors.New("empty label")
	ErrEmptyURL      = errors.New("empty url")
	ErrEmptyChildren = errors.New("children present but empty")
	ErrMixedChildren = errors.New("both inline children and external ref")
	ErrAbsoluteURL   = errors.New("url must be a relative path")
	ErrBadRef        = errors.New("invalid subtree ref")
	ErrNilNode       = errors.New("nil node")
	ErrBadMessageKey = errors.New("invalid message key")
)

// NodeError ties a validation problem to the node position it was found at.
type NodeError struct {
	Path Path
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Path, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// Validate checks the structural well-formedness of a tree and returns all
// problems found, joined. A nil result means every node is valid.
func Validate(nodes []*Node) error {
	var errs []error
	var check func(prefix Path, nodes []*Node)
	check = func(prefix Path, nodes []*Node) {
		for i, n := range nodes {
			p := prefix.child(i)
			if n == nil {
				errs = append(errs, &NodeError{Path: p, Err: ErrNilNode})
				continue
			}
			for _, err := range nodeProblems(n) {
				errs = append(errs, &NodeError{Path: p, Err: err})
			}
			check(p, n.Children)
		}
	}
	check(nil, nodes)
	return errors.Join(errs...)
}

func nodeProblems(n *Node) []error {
	var errs []error
	if strings.TrimSpace(n.Label) == "" {
		errs = append(errs, ErrEmptyLabel)
	}
	if n.URL == "" {
		errs = append(errs, ErrEmptyURL)
	} else if err := checkRelative(n.URL); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", err, n.URL))
	}
	if n.Children != nil && len(n.Children) == 0 {
		errs = append(errs, ErrEmptyChildren)
	}
	if len(n.Children) > 0 && n.Ref != "" {
		errs = append(errs, ErrMixedChildren)
	}
	if n.Ref != "" {
		if err := ValidateRef(n.Ref); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func checkRelative(url string) error {
	page, _ := SplitURL(url)
	if strings.HasPrefix(page, "/") || strings.Contains(page, "://") || strings.HasPrefix(page, "..") {
		return ErrAbsoluteURL
	}
	return nil
}

// ValidateRef checks that ref names a subtree file relative to the output
// directory and that its base name is usable as a JavaScript identifier.
func ValidateRef(ref string) error {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "..") || strings.HasSuffix(ref, "/") {
		return fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	if !isIdentifier(RefVar(ref)) {
		return fmt.Errorf("%w: %q is not a valid variable name", ErrBadRef, RefVar(ref))
	}
	if reservedRef(ref) {
		return fmt.Errorf("%w: %q clashes with the data or index files", ErrBadRef, ref)
	}
	return nil
}

// reservedRef reports whether a subtree named ref would overwrite the data
// file or an index shard, or redeclare one of their variables.
func reservedRef(ref string) bool {
	file := strings.ToLower(ref)
	if file == "navtreedata" || numbered(file, "navtreeindex") {
		return true
	}
	switch v := RefVar(ref); v {
	case TreeVar, IndexVar, SyncOnKey, SyncOffKey:
		return true
	default:
		return numbered(v, IndexVar)
	}
}

// numbered reports whether s is prefix followed by one or more digits.
func numbered(s, prefix string) bool {
	rest, ok := strings.CutPrefix(s, prefix)
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidateMessages checks that every message key can be declared as a
// JavaScript variable of its own.
func ValidateMessages(m Messages) error {
	var errs []error
	for _, k := range m.Keys() {
		switch {
		case !isIdentifier(k):
			errs = append(errs, fmt.Errorf("%w: %q", ErrBadMessageKey, k))
		case k == TreeVar || k == IndexVar || numbered(k, IndexVar):
			errs = append(errs, fmt.Errorf("%w: %q redeclares a navigation variable", ErrBadMessageKey, k))
		}
	}
	return errors.Join(errs...)
}

// RefVar returns the variable declared by the subtree file for ref.
func RefVar(ref string) string {
	if i := strings.LastIndexByte(ref, '/'); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
