package msp_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dabch/rabe/pkg/rabe"
	"github.com/dabch/rabe/pkg/rabe/msp"
	"github.com/dabch/rabe/pkg/rabe/policy"
)

func TestCompileTwoConjunctions(t *testing.T) {
	n, err := policy.ParseJSON([]byte(`{"OR":[{"AND":[{"ATT":"A"},{"ATT":"B"}]},{"AND":[{"ATT":"C"},{"ATT":"D"}]}]}`))
	require.NoError(t, err)

	m, err := msp.Compile(n)
	require.NoError(t, err)

	require.Equal(t, 3, m.Degree)
	require.Len(t, m.Rows, 4)
	require.Equal(t, []string{"A", "B", "C", "D"}, m.Attributes())

	want := [][]int{
		{1, 1, 0},
		{1, -1, 0},
		{1, 0, 1},
		{1, 0, -1},
	}
	for i, r := range m.Rows {
		require.Equal(t, want[i], r.Vector, "row %d (%s)", i, r.Attribute)
	}
}

func TestCompileSingleAttribute(t *testing.T) {
	m, err := msp.Compile(policy.Attr("A"))
	require.NoError(t, err)
	require.Equal(t, 1, m.Degree)
	require.Equal(t, []msp.Row{{Vector: []int{1}, Attribute: "A"}}, m.Rows)
}

func TestCompileOrKeepsDegree(t *testing.T) {
	m, err := msp.Compile(policy.Or(policy.Attr("A"), policy.Attr("B"), policy.Attr("C")))
	require.NoError(t, err)
	require.Equal(t, 1, m.Degree)
	for _, r := range m.Rows {
		require.Equal(t, []int{1}, r.Vector)
	}
}

func TestCompileNestedAndWidensEarlierRows(t *testing.T) {
	// A and (B and C)
	m, err := msp.Compile(policy.And(policy.Attr("A"), policy.And(policy.Attr("B"), policy.Attr("C"))))
	require.NoError(t, err)
	require.Equal(t, 3, m.Degree)
	require.Equal(t, []int{1, 1, 0}, m.Rows[0].Vector)
	require.Equal(t, []int{1, -1, 1}, m.Rows[1].Vector)
	require.Equal(t, []int{1, -1, -1}, m.Rows[2].Vector)
}

func TestCompileRowsDoNotAlias(t *testing.T) {
	m, err := msp.Compile(policy.Or(policy.Attr("A"), policy.Attr("B")))
	require.NoError(t, err)
	m.Rows[0].Vector[0] = 42
	require.Equal(t, 1, m.Rows[1].Vector[0])
}

func TestCompileDuplicateAttributes(t *testing.T) {
	m, err := msp.Compile(policy.Or(policy.And(policy.Attr("A"), policy.Attr("B")), policy.Attr("A")))
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "A"}, m.Attributes())
}

func TestCompileRejects(t *testing.T) {
	tests := []struct {
		name string
		node policy.Node
		want error
	}{
		{"nil", nil, rabe.ErrMalformedPolicy},
		{"or arity", policy.Or(policy.Attr("A")), rabe.ErrInvalidArity},
		{"empty or", policy.Or(), rabe.ErrInvalidArity},
		{"and missing operand", policy.And(policy.Attr("A"), nil), rabe.ErrInvalidArity},
		{"empty name", policy.And(policy.Attr("A"), policy.Attr("")), rabe.ErrMalformedPolicy},
		{"nested nil", policy.Or(policy.Attr("A"), nil), rabe.ErrMalformedPolicy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := msp.Compile(tc.node)
			require.Nil(t, m)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCompileDeepPolicy(t *testing.T) {
	// A right-leaning chain of 500 conjunctions.
	var n policy.Node = policy.Attr("leaf")
	for i := 0; i < 500; i++ {
		n = policy.And(policy.Attr(fmt.Sprintf("a%d", i)), n)
	}
	m, err := msp.Compile(n)
	require.NoError(t, err)
	require.Equal(t, 501, m.Degree)
	require.Len(t, m.Rows, 501)
	for _, r := range m.Rows {
		require.Len(t, r.Vector, m.Degree)
	}
}

func TestMatrixAndTarget(t *testing.T) {
	m, err := msp.Compile(policy.And(policy.Attr("A"), policy.Attr("B")))
	require.NoError(t, err)

	mat := m.Matrix()
	require.Len(t, mat, 2)
	require.Equal(t, int64(-1), mat[1][1].Int64())

	target := m.Target()
	require.Len(t, target, 2)
	require.Equal(t, int64(1), target[0].Int64())
	require.Equal(t, int64(0), target[1].Int64())

	require.True(t, strings.HasPrefix(m.String(), "MSP 2x2"))
}
