package lsss

import (
	"fmt"
	"io"
	"math/big"

	"github.com/fentec-project/bn256"
	"github.com/fentec-project/gofe/data"

	"github.com/dabch/rabe/pkg/rabe"
	"github.com/dabch/rabe/pkg/rabe/field"
	"github.com/dabch/rabe/pkg/rabe/msp"
)

// Share is the scalar assigned to one row of a span program.
type Share struct {
	Row       int
	Attribute string
	Value     *big.Int
}

// SatisfyingSet is a minimal set of span program rows whose labels are held
// by the caller, together with coefficients c_i such that
// sum c_i * row_i = (1, 0, ..., 0).
type SatisfyingSet struct {
	Rows         []int
	Attributes   []string
	Coefficients data.Vector
}

// GenerateShares splits secret over m. It completes the vector
// (secret, r_1, ..., r_{d-1}) with uniform scalars read from rng and returns
// one share per row, the inner product of that row with the vector.
func GenerateShares(m *msp.MSP, secret *big.Int, rng io.Reader) ([]Share, error) {
	if m == nil || len(m.Rows) == 0 || m.Degree < 1 {
		return nil, fmt.Errorf("empty span program: %w", rabe.ErrInvalidParameter)
	}
	if secret == nil {
		return nil, fmt.Errorf("nil secret: %w", rabe.ErrInvalidParameter)
	}

	vec := data.Vector{field.Reduce(secret)}
	if m.Degree > 1 {
		r, err := data.NewRandomVector(m.Degree-1, field.NewSampler(rng))
		if err != nil {
			return nil, fmt.Errorf("sample share vector: %w", err)
		}
		vec = append(vec, r...)
	}

	mat := m.Matrix()
	shares := make([]Share, len(m.Rows))
	for i, row := range mat {
		v, err := row.Dot(vec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		shares[i] = Share{Row: i, Attribute: m.Rows[i].Attribute, Value: field.Reduce(v)}
	}
	return shares, nil
}

// Prune determines whether the rows labelled with attributes in attrs span
// the target vector of m. If they do, it drops every row that is not needed
// and solves for the reconstruction coefficients of the remaining minimal
// set. It returns rabe.ErrPolicyNotSatisfied otherwise.
func Prune(attrs []string, m *msp.MSP) (*SatisfyingSet, error) {
	if m == nil || len(m.Rows) == 0 {
		return nil, fmt.Errorf("empty span program: %w", rabe.ErrInvalidParameter)
	}

	held := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		held[a] = struct{}{}
	}

	mat := m.Matrix()
	target := m.Target()

	var rows []int
	for i, r := range m.Rows {
		if _, ok := held[r.Attribute]; ok {
			rows = append(rows, i)
		}
	}
	if _, ok := coefficients(mat, rows, target); !ok {
		return nil, rabe.ErrPolicyNotSatisfied
	}

	// Spanning is monotone, so a row that cannot be dropped now cannot be
	// dropped after further removals either. Later rows go first so that
	// earlier OR branches are kept.
	for i := len(rows) - 1; i >= 0; i-- {
		trial := make([]int, 0, len(rows)-1)
		trial = append(trial, rows[:i]...)
		trial = append(trial, rows[i+1:]...)
		if _, ok := coefficients(mat, trial, target); ok {
			rows = trial
		}
	}

	coeffs, ok := coefficients(mat, rows, target)
	if !ok {
		return nil, rabe.ErrPolicyNotSatisfied
	}

	set := &SatisfyingSet{Rows: rows, Coefficients: coeffs, Attributes: make([]string, len(rows))}
	for i, r := range rows {
		set.Attributes[i] = m.Rows[r].Attribute
	}
	return set, nil
}

// Reconstruct computes sum c_i * share_i over the rows of set. Every row of
// set must have a share; a missing one fails with rabe.ErrUnresolvedAttribute
// rather than producing a partial result.
func Reconstruct(set *SatisfyingSet, shares []Share) (*big.Int, error) {
	if set == nil {
		return nil, fmt.Errorf("nil satisfying set: %w", rabe.ErrInvalidParameter)
	}
	byRow := make(map[int]Share, len(shares))
	for _, s := range shares {
		byRow[s.Row] = s
	}

	acc := big.NewInt(0)
	for i, row := range set.Rows {
		s, ok := byRow[row]
		if !ok || s.Value == nil || s.Attribute != set.Attributes[i] {
			return nil, rabe.NewError("Reconstruct", "", fmt.Errorf("row %d (%s): %w", row, set.Attributes[i], rabe.ErrUnresolvedAttribute))
		}
		acc.Add(acc, new(big.Int).Mul(set.Coefficients[i], s.Value))
	}
	return field.Reduce(acc), nil
}

// ReconstructGT computes prod values[row_i]^c_i in GT, the pairing-setting
// counterpart of Reconstruct. values is keyed by span program row.
func ReconstructGT(set *SatisfyingSet, values map[int]*bn256.GT) (*bn256.GT, error) {
	if set == nil {
		return nil, fmt.Errorf("nil satisfying set: %w", rabe.ErrInvalidParameter)
	}
	acc := new(bn256.GT).ScalarBaseMult(big.NewInt(0))
	for i, row := range set.Rows {
		v, ok := values[row]
		if !ok || v == nil {
			return nil, rabe.NewError("ReconstructGT", "", fmt.Errorf("row %d (%s): %w", row, set.Attributes[i], rabe.ErrUnresolvedAttribute))
		}
		acc.Add(acc, new(bn256.GT).ScalarMult(v, field.Reduce(set.Coefficients[i])))
	}
	return acc, nil
}

// pick returns the selected rows reduced into [0, Order).
func pick(mat data.Matrix, rows []int) []data.Vector {
	out := make([]data.Vector, len(rows))
	for i, r := range rows {
		out[i] = mat[r].Mod(field.Order)
	}
	return out
}

// coefficients solves sum c_i * mat[rows[i]] = target over the scalar field.
// It reports false when the rows do not span target.
func coefficients(mat data.Matrix, rows []int, target data.Vector) (data.Vector, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	sub, err := data.NewMatrix(pick(mat, rows))
	if err != nil {
		return nil, false
	}
	c, err := data.GaussianEliminationSolver(sub.Transpose(), target, field.Order)
	if err != nil {
		return nil, false
	}
	return c.Mod(field.Order), true
}
