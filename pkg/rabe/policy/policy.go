package policy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dabch/rabe/pkg/rabe"
)

// Node is a policy tree node. The set of implementations is closed:
// AttributeNode, AndNode and OrNode.
type Node interface {
	isNode()
	String() string
}

// AttributeNode is a leaf naming a single attribute.
type AttributeNode struct {
	Name string
}

// AndNode is a binary conjunction. Left and Right are distinguished by the
// span program compiler, so their order matters.
type AndNode struct {
	Left  Node
	Right Node
}

// OrNode is a disjunction of at least two children.
type OrNode struct {
	Children []Node
}

func (AttributeNode) isNode() {}
func (AndNode) isNode()       {}
func (OrNode) isNode()        {}

// Attr creates a leaf for the named attribute.
func Attr(name string) Node {
	return AttributeNode{Name: name}
}

// And creates a conjunction of left and right.
func And(left, right Node) Node {
	return AndNode{Left: left, Right: right}
}

// Or creates a disjunction of the given children.
func Or(children ...Node) Node {
	return OrNode{Children: children}
}

func (a AttributeNode) String() string {
	return strconv.Quote(a.Name)
}

func (a AndNode) String() string {
	return group(a.Left) + " and " + group(a.Right)
}

func (o OrNode) String() string {
	parts := make([]string, len(o.Children))
	for i, c := range o.Children {
		parts[i] = group(c)
	}
	return strings.Join(parts, " or ")
}

func group(n Node) string {
	switch n.(type) {
	case nil:
		return "<nil>"
	case AttributeNode:
		return n.String()
	default:
		return "(" + n.String() + ")"
	}
}

// Validate checks the structural invariants of a policy tree: no nil nodes,
// non-empty attribute names, two operands per AND and at least two children
// per OR. The returned error wraps rabe.ErrMalformedPolicy or
// rabe.ErrInvalidArity and names the offending position.
func Validate(n Node) error {
	return validate(n, "")
}

func validate(n Node, path string) error {
	switch node := n.(type) {
	case AttributeNode:
		if node.Name == "" {
			return rabe.NewError("Validate", Path(path, "ATT", -1), fmt.Errorf("empty attribute name: %w", rabe.ErrMalformedPolicy))
		}
		return nil
	case AndNode:
		here := Path(path, "AND", -1)
		if node.Left == nil || node.Right == nil {
			return rabe.NewError("Validate", here, fmt.Errorf("AND requires exactly two operands: %w", rabe.ErrInvalidArity))
		}
		if err := validate(node.Left, Path(path, "AND", 0)); err != nil {
			return err
		}
		return validate(node.Right, Path(path, "AND", 1))
	case OrNode:
		if len(node.Children) < 2 {
			return rabe.NewError("Validate", Path(path, "OR", -1),
				fmt.Errorf("OR requires at least two children, got %d: %w", len(node.Children), rabe.ErrInvalidArity))
		}
		for i, c := range node.Children {
			if err := validate(c, Path(path, "OR", i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return rabe.NewError("Validate", path, fmt.Errorf("unrecognized node %T: %w", n, rabe.ErrMalformedPolicy))
	}
}

// Path appends a gate segment to a policy path. A negative index names the
// gate itself rather than one of its children.
func Path(parent, gate string, index int) string {
	seg := gate
	if index >= 0 {
		seg = fmt.Sprintf("%s[%d]", gate, index)
	}
	if parent == "" {
		return seg
	}
	return parent + "/" + seg
}

// Evaluate reports whether attrs satisfies n under plain boolean semantics.
// Malformed subtrees evaluate to false.
func Evaluate(n Node, attrs []string) bool {
	held := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		held[a] = struct{}{}
	}
	return evaluate(n, held)
}

func evaluate(n Node, held map[string]struct{}) bool {
	switch node := n.(type) {
	case AttributeNode:
		_, ok := held[node.Name]
		return ok
	case AndNode:
		return evaluate(node.Left, held) && evaluate(node.Right, held)
	case OrNode:
		for _, c := range node.Children {
			if evaluate(c, held) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Attributes returns the distinct attribute names of n in first-seen
// depth-first order.
func Attributes(n Node) []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(Node)
	walk = func(n Node) {
		switch node := n.(type) {
		case AttributeNode:
			if _, ok := seen[node.Name]; !ok {
				seen[node.Name] = struct{}{}
				out = append(out, node.Name)
			}
		case AndNode:
			walk(node.Left)
			walk(node.Right)
		case OrNode:
			for _, c := range node.Children {
				walk(c)
			}
		}
	}
	walk(n)
	return out
}
