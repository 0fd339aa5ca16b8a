package symmetric

import (
	"bytes"
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/fentec-project/bn256"
	"github.com/stretchr/testify/require"

	"github.com/dabch/rabe/pkg/rabe"
)

func gtElement(k int64) *bn256.GT {
	return new(bn256.GT).ScalarBaseMult(big.NewInt(k))
}

func cloneEnvelope(e *Envelope) *Envelope {
	c := *e
	c.Ciphertext = append([]byte(nil), e.Ciphertext...)
	return &c
}

func TestDeriveKeyDeterministic(t *testing.T) {
	a := DeriveKey(gtElement(7))
	b := DeriveKey(new(bn256.GT).Add(gtElement(3), gtElement(4)))
	require.Equal(t, a, b)
	require.NotEqual(t, a, DeriveKey(gtElement(8)))
}

func TestRoundTrip(t *testing.T) {
	key := DeriveKey(gtElement(42))
	for _, msg := range [][]byte{
		{},
		[]byte("a"),
		[]byte("dance like no one's watching, encrypt like everyone is!"),
		bytes.Repeat([]byte{0xab}, 4096),
	} {
		orig := bytes.Clone(msg)
		env, err := Encrypt(&key, msg, rand.Reader)
		require.NoError(t, err)
		require.Len(t, env.Ciphertext, len(msg))
		require.True(t, bytes.Equal(orig, msg))

		got, err := Decrypt(&key, env)
		require.NoError(t, err)
		require.True(t, bytes.Equal(orig, got))
	}
}

func TestWithElement(t *testing.T) {
	msg := []byte("hybrid payload")
	env, err := EncryptWith(gtElement(9), msg, rand.Reader)
	require.NoError(t, err)

	got, err := DecryptWith(gtElement(9), env)
	require.NoError(t, err)
	require.Equal(t, msg, got)

	_, err = DecryptWith(gtElement(10), env)
	require.ErrorIs(t, err, rabe.ErrAuthenticationFailed)
}

func TestTamperFails(t *testing.T) {
	key := DeriveKey(gtElement(5))
	env, err := Encrypt(&key, []byte("attack at dawn"), rand.Reader)
	require.NoError(t, err)

	flips := map[string]func(e *Envelope, i int){
		"nonce":      func(e *Envelope, i int) { e.Nonce[i] ^= 0x01 },
		"tag":        func(e *Envelope, i int) { e.Tag[i] ^= 0x80 },
		"ciphertext": func(e *Envelope, i int) { e.Ciphertext[i] ^= 0x10 },
	}
	sizes := map[string]int{"nonce": NonceSize, "tag": TagSize, "ciphertext": len(env.Ciphertext)}

	for name, flip := range flips {
		for i := 0; i < sizes[name]; i++ {
			bad := cloneEnvelope(env)
			flip(bad, i)
			want := cloneEnvelope(bad)

			_, err := Decrypt(&key, bad)
			require.ErrorIs(t, err, rabe.ErrAuthenticationFailed, "%s byte %d", name, i)

			var derr *DecryptError
			require.True(t, errors.As(err, &derr))
			require.Same(t, bad, derr.Envelope)
			require.Equal(t, want, bad, "envelope must come back unchanged")
		}
	}
}

func TestWrongKeyReturnsEnvelope(t *testing.T) {
	k1 := DeriveKey(gtElement(1))
	k2 := DeriveKey(gtElement(2))
	env, err := Encrypt(&k1, []byte("retry me"), rand.Reader)
	require.NoError(t, err)

	_, err = Decrypt(&k2, env)
	var derr *DecryptError
	require.ErrorAs(t, err, &derr)

	// The returned envelope still opens under the right key.
	got, err := Decrypt(&k1, derr.Envelope)
	require.NoError(t, err)
	require.Equal(t, []byte("retry me"), got)
}

func TestNonceFreshness(t *testing.T) {
	key := DeriveKey(gtElement(3))
	msg := []byte("same plaintext")
	seen := make(map[[NonceSize]byte]struct{})
	const trials = 512
	for i := 0; i < trials; i++ {
		env, err := Encrypt(&key, msg, rand.Reader)
		require.NoError(t, err)
		seen[env.Nonce] = struct{}{}
	}
	// 104-bit nonces: a collision among 512 draws has probability ~2^-87.
	require.Len(t, seen, trials)
}

func TestEncryptRejects(t *testing.T) {
	key := DeriveKey(gtElement(3))
	_, err := Encrypt(nil, []byte("x"), rand.Reader)
	require.ErrorIs(t, err, rabe.ErrInvalidParameter)
	_, err = Encrypt(&key, []byte("x"), nil)
	require.ErrorIs(t, err, rabe.ErrInvalidParameter)
	_, err = Encrypt(&key, []byte("x"), bytes.NewReader([]byte{1, 2, 3}))
	require.Error(t, err)
	_, err = Decrypt(&key, nil)
	require.ErrorIs(t, err, rabe.ErrInvalidParameter)
}

func TestEncryptLengthLimit(t *testing.T) {
	key := DeriveKey(gtElement(4))

	env, err := Encrypt(&key, make([]byte, 1<<16-1), rand.Reader)
	require.NoError(t, err)
	got, err := Decrypt(&key, env)
	require.NoError(t, err)
	require.Len(t, got, 1<<16-1)

	require.NotPanics(t, func() {
		_, err = Encrypt(&key, make([]byte, 1<<16), rand.Reader)
	})
	require.ErrorIs(t, err, rabe.ErrSymmetricCipher)

	oversized := &Envelope{Ciphertext: make([]byte, 1<<16)}
	require.NotPanics(t, func() {
		_, err = Decrypt(&key, oversized)
	})
	require.ErrorIs(t, err, rabe.ErrAuthenticationFailed)
}

func TestKeyZeroize(t *testing.T) {
	key := DeriveKey(gtElement(3))
	key.Zeroize()
	require.Equal(t, Key{}, key)
}
