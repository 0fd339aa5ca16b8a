package field

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/fentec-project/gofe/data"
	"github.com/stretchr/testify/require"
)

func TestSamplerRange(t *testing.T) {
	s := NewNonZeroSampler(bytes.NewReader(bytes.Repeat([]byte{0}, 4096)))
	v, err := s.Sample()
	require.NoError(t, err)
	require.Equal(t, 1, v.Sign())
	require.Equal(t, -1, v.Cmp(Order))
}

func TestSamplerFeedsRandomVector(t *testing.T) {
	rng := bytes.NewReader(bytes.Repeat([]byte{0x11, 0x22, 0x33}, 1024))
	vec, err := data.NewRandomVector(4, NewSampler(rng))
	require.NoError(t, err)
	require.Len(t, vec, 4)
	for _, v := range vec {
		require.Equal(t, -1, v.Cmp(Order))
	}
}

func TestSamplerExhaustedReader(t *testing.T) {
	_, err := Random(bytes.NewReader(nil))
	require.Error(t, err)

	_, err = (&Sampler{}).Sample()
	require.Error(t, err)
}

func TestReduceAndInverse(t *testing.T) {
	minusOne := Reduce(big.NewInt(-1))
	require.Equal(t, 0, minusOne.Cmp(new(big.Int).Sub(Order, big.NewInt(1))))

	inv, err := Inverse(big.NewInt(2))
	require.NoError(t, err)
	prod := Reduce(new(big.Int).Mul(inv, big.NewInt(2)))
	require.Equal(t, 0, prod.Cmp(big.NewInt(1)))

	_, err = Inverse(new(big.Int).Set(Order))
	require.Error(t, err)
}
