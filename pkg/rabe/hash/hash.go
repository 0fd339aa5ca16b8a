// Package hash maps arbitrary byte strings into the scalar field and onto
// the pairing groups.
package hash

import (
	"math/big"

	"github.com/fentec-project/bn256"
	"golang.org/x/crypto/blake2b"

	"github.com/dabch/rabe/pkg/rabe/field"
)

// ToField returns BLAKE2b-512(data) reduced modulo the group order.
func ToField(data []byte) *big.Int {
	sum := blake2b.Sum512(data)
	return field.Reduce(new(big.Int).SetBytes(sum[:]))
}

// ToG1 returns g·ToField(data).
func ToG1(g *bn256.G1, data []byte) *bn256.G1 {
	return new(bn256.G1).ScalarMult(g, ToField(data))
}

// ToG2 returns g·ToField(data).
func ToG2(g *bn256.G2, data []byte) *bn256.G2 {
	return new(bn256.G2).ScalarMult(g, ToField(data))
}

// ToGT returns g^ToField(data).
func ToGT(g *bn256.GT, data []byte) *bn256.GT {
	return new(bn256.GT).ScalarMult(g, ToField(data))
}
