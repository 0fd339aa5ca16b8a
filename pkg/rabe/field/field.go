// Package field provides scalar-field helpers over the order of the BN256
// pairing groups.
package field

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/fentec-project/bn256"
	"github.com/fentec-project/gofe/sample"

	"github.com/dabch/rabe/pkg/rabe"
)

// Order is the prime order r of G1, G2 and GT.
var Order = bn256.Order

// Sampler draws uniform scalars from an explicit entropy source. It
// implements gofe's sample.Sampler so it can feed data.NewRandomVector.
type Sampler struct {
	rng     io.Reader
	min     *big.Int
	modulus *big.Int
}

var _ sample.Sampler = (*Sampler)(nil)

// NewSampler returns a sampler of uniform values in [0, Order) read from rng.
func NewSampler(rng io.Reader) *Sampler {
	return &Sampler{rng: rng, min: big.NewInt(0), modulus: Order}
}

// NewNonZeroSampler returns a sampler of uniform values in [1, Order).
func NewNonZeroSampler(rng io.Reader) *Sampler {
	return &Sampler{rng: rng, min: big.NewInt(1), modulus: Order}
}

// Sample returns the next scalar.
func (s *Sampler) Sample() (*big.Int, error) {
	if s == nil || s.rng == nil {
		return nil, fmt.Errorf("nil entropy source: %w", rabe.ErrInvalidParameter)
	}
	span := new(big.Int).Sub(s.modulus, s.min)
	v, err := rand.Int(s.rng, span)
	if err != nil {
		return nil, fmt.Errorf("sample scalar: %w", err)
	}
	return v.Add(v, s.min), nil
}

// Random returns a uniform scalar in [0, Order).
func Random(rng io.Reader) (*big.Int, error) {
	return NewSampler(rng).Sample()
}

// RandomNonZero returns a uniform scalar in [1, Order).
func RandomNonZero(rng io.Reader) (*big.Int, error) {
	return NewNonZeroSampler(rng).Sample()
}

// Reduce returns x mod Order in [0, Order), accepting negative x.
func Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, Order)
}

// Inverse returns x^-1 mod Order.
func Inverse(x *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(Reduce(x), Order)
	if inv == nil {
		return nil, fmt.Errorf("scalar has no inverse: %w", rabe.ErrInvalidParameter)
	}
	return inv, nil
}
