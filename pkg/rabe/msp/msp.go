package msp

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/fentec-project/gofe/data"

	"github.com/dabch/rabe/pkg/rabe"
	"github.com/dabch/rabe/pkg/rabe/policy"
)

// Row is one line of a span program: a coefficient vector labelled with the
// attribute whose leaf produced it.
type Row struct {
	Vector    []int
	Attribute string
}

// MSP is a monotone span program. Every row has exactly Degree entries and
// the target vector is (1, 0, ..., 0).
type MSP struct {
	Rows   []Row
	Degree int
}

type frame struct {
	node policy.Node
	vec  []int
	path string
}

// Compile turns a policy tree into a span program using the Lewko-Waters
// construction. OR children inherit the parent vector unchanged; an AND gate
// opens a new column and hands its left operand the parent vector extended
// with +1 and its right operand the parent vector extended with -1.
//
// Rows appear in depth-first, left-to-right leaf order, so row i is always
// paired with the i-th attribute leaf of the tree. This is the forward leaf
// order, not the reverse construction order in which some Lewko-Waters
// compilers emit rows; callers must pair rows with labels through Row rather
// than by position in another program.
func Compile(root policy.Node) (*MSP, error) {
	m := &MSP{Degree: 1}
	stack := []frame{{node: root, vec: []int{1}}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch n := f.node.(type) {
		case policy.AttributeNode:
			if n.Name == "" {
				return nil, rabe.NewError("Compile", policy.Path(f.path, policy.TagAttribute, -1),
					fmt.Errorf("empty attribute name: %w", rabe.ErrMalformedPolicy))
			}
			// OR siblings share f.vec, so every row owns a copy.
			m.Rows = append(m.Rows, Row{Vector: append([]int(nil), f.vec...), Attribute: n.Name})

		case policy.OrNode:
			if len(n.Children) < 2 {
				return nil, rabe.NewError("Compile", policy.Path(f.path, policy.TagOr, -1),
					fmt.Errorf("OR requires at least two children, got %d: %w", len(n.Children), rabe.ErrInvalidArity))
			}
			// Pushed in reverse so the first child is compiled first.
			for i := len(n.Children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: n.Children[i], vec: f.vec, path: policy.Path(f.path, policy.TagOr, i)})
			}

		case policy.AndNode:
			if n.Left == nil || n.Right == nil {
				return nil, rabe.NewError("Compile", policy.Path(f.path, policy.TagAnd, -1),
					fmt.Errorf("AND requires exactly two operands: %w", rabe.ErrInvalidArity))
			}
			left := extend(f.vec, m.Degree, 1)
			right := extend(f.vec, m.Degree, -1)
			m.Degree++
			stack = append(stack,
				frame{node: n.Right, vec: right, path: policy.Path(f.path, policy.TagAnd, 1)},
				frame{node: n.Left, vec: left, path: policy.Path(f.path, policy.TagAnd, 0)},
			)

		default:
			return nil, rabe.NewError("Compile", f.path, fmt.Errorf("unrecognized node %T: %w", f.node, rabe.ErrMalformedPolicy))
		}
	}

	// Rows were emitted before the final degree was known.
	for i := range m.Rows {
		m.Rows[i].Vector = pad(m.Rows[i].Vector, m.Degree)
	}
	return m, nil
}

// extend returns a fresh copy of v zero-padded to degree entries followed by
// sign.
func extend(v []int, degree, sign int) []int {
	out := make([]int, degree+1)
	copy(out, v)
	out[degree] = sign
	return out
}

func pad(v []int, degree int) []int {
	if len(v) == degree {
		return v
	}
	out := make([]int, degree)
	copy(out, v)
	return out
}

// Attributes returns the row labels in row order.
func (m *MSP) Attributes() []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Attribute
	}
	return out
}

// Matrix returns the rows as a matrix of big integers.
func (m *MSP) Matrix() data.Matrix {
	mat := make(data.Matrix, len(m.Rows))
	for i, r := range m.Rows {
		vec := make(data.Vector, m.Degree)
		for j := range vec {
			if j < len(r.Vector) {
				vec[j] = big.NewInt(int64(r.Vector[j]))
			} else {
				vec[j] = big.NewInt(0)
			}
		}
		mat[i] = vec
	}
	return mat
}

// Target returns the vector (1, 0, ..., 0) of length Degree.
func (m *MSP) Target() data.Vector {
	t := data.NewConstantVector(m.Degree, big.NewInt(0))
	t[0] = big.NewInt(1)
	return t
}

func (m *MSP) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "MSP %dx%d\n", len(m.Rows), m.Degree)
	for i, r := range m.Rows {
		fmt.Fprintf(&b, "%3d %-12s %v\n", i, r.Attribute, r.Vector)
	}
	return b.String()
}
