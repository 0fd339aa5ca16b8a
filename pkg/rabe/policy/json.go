package policy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dabch/rabe/pkg/rabe"
)

// JSON gate tags.
const (
	TagAnd       = "AND"
	TagOr        = "OR"
	TagAttribute = "ATT"
)

// ParseJSON lowers a JSON policy of the shape
//
//	{"AND": [node, node]} | {"OR": [node, node, ...]} | {"ATT": "name"}
//
// into a Node. Shape and arity are checked while building, so a returned Node
// always passes Validate.
func ParseJSON(data []byte) (Node, error) {
	return parseNode(json.RawMessage(data), "")
}

func parseNode(raw json.RawMessage, path string) (Node, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, rabe.NewError("ParseJSON", path, fmt.Errorf("null node: %w", rabe.ErrMalformedPolicy))
	}

	tag, body, err := singleKey(trimmed)
	if err != nil {
		return nil, rabe.NewError("ParseJSON", path, err)
	}

	switch tag {
	case TagAttribute:
		var name string
		if err := json.Unmarshal(body, &name); err != nil {
			return nil, rabe.NewError("ParseJSON", Path(path, TagAttribute, -1), fmt.Errorf("attribute must be a string: %w", rabe.ErrMalformedPolicy))
		}
		if name == "" {
			return nil, rabe.NewError("ParseJSON", Path(path, TagAttribute, -1), fmt.Errorf("empty attribute name: %w", rabe.ErrMalformedPolicy))
		}
		return AttributeNode{Name: name}, nil

	case TagAnd:
		children, err := parseChildren(body, path, TagAnd)
		if err != nil {
			return nil, err
		}
		if len(children) != 2 {
			return nil, rabe.NewError("ParseJSON", Path(path, TagAnd, -1),
				fmt.Errorf("AND requires exactly two operands, got %d: %w", len(children), rabe.ErrInvalidArity))
		}
		return AndNode{Left: children[0], Right: children[1]}, nil

	case TagOr:
		children, err := parseChildren(body, path, TagOr)
		if err != nil {
			return nil, err
		}
		if len(children) < 2 {
			return nil, rabe.NewError("ParseJSON", Path(path, TagOr, -1),
				fmt.Errorf("OR requires at least two children, got %d: %w", len(children), rabe.ErrInvalidArity))
		}
		return OrNode{Children: children}, nil
	}

	return nil, rabe.NewError("ParseJSON", path, fmt.Errorf("unknown tag %q, want AND, OR or ATT: %w", tag, rabe.ErrMalformedPolicy))
}

// singleKey reads a JSON object token by token and returns its only member.
// Duplicate keys are rejected rather than collapsed.
func singleKey(raw []byte) (string, json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return "", nil, fmt.Errorf("node is not an object: %w", rabe.ErrMalformedPolicy)
	}

	var (
		tag  string
		body json.RawMessage
		keys int
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, fmt.Errorf("read key: %v: %w", err, rabe.ErrMalformedPolicy)
		}
		key, _ := tok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return "", nil, fmt.Errorf("read value of %q: %v: %w", key, err, rabe.ErrMalformedPolicy)
		}
		keys++
		if keys > 1 {
			return "", nil, fmt.Errorf("node must have exactly one of AND, OR, ATT; found extra key %q after %q: %w", key, tag, rabe.ErrMalformedPolicy)
		}
		tag, body = key, val
	}
	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return "", nil, fmt.Errorf("unterminated object: %w", rabe.ErrMalformedPolicy)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("trailing data after node: %w", rabe.ErrMalformedPolicy)
	}
	if keys == 0 {
		return "", nil, fmt.Errorf("node must have exactly one of AND, OR, ATT; got none: %w", rabe.ErrMalformedPolicy)
	}
	return tag, body, nil
}

func parseChildren(body json.RawMessage, path, tag string) ([]Node, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, rabe.NewError("ParseJSON", Path(path, tag, -1), fmt.Errorf("%s operands must be an array: %w", tag, rabe.ErrMalformedPolicy))
	}
	children := make([]Node, 0, len(raws))
	for i, r := range raws {
		child, err := parseNode(r, Path(path, tag, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// MarshalJSON encodes the leaf as {"ATT": name}.
func (a AttributeNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{TagAttribute: a.Name})
}

// MarshalJSON encodes the conjunction as {"AND": [left, right]}.
func (a AndNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Node{TagAnd: {a.Left, a.Right}})
}

// MarshalJSON encodes the disjunction as {"OR": [children...]}.
func (o OrNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]Node{TagOr: o.Children})
}
