package symmetric

import (
	"crypto/aes"
	"fmt"
	"io"

	"github.com/pion/dtls/v2/pkg/crypto/ccm"
	"golang.org/x/crypto/sha3"

	"github.com/dabch/rabe/pkg/rabe"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the CCM nonce length in bytes (104 bits).
	NonceSize = 13
	// TagSize is the CCM authentication tag length in bytes (128 bits).
	TagSize = 16
)

// Key is a one-time symmetric key derived from a group element.
type Key [KeySize]byte

// Zeroize wipes the key bytes.
func (k *Key) Zeroize() {
	if k != nil {
		rabe.ZeroizeBytes(k[:])
	}
}

// Envelope carries the output of one encryption. The nonce is fresh for every
// call to Encrypt.
type Envelope struct {
	Nonce      [NonceSize]byte
	Tag        [TagSize]byte
	Ciphertext []byte
}

// DecryptError is returned when the tag does not verify. It hands the
// untouched envelope back so the caller can retry with another key.
type DecryptError struct {
	Envelope *Envelope
}

func (e *DecryptError) Error() string {
	return "rabe.Decrypt: " + rabe.ErrAuthenticationFailed.Error()
}

func (e *DecryptError) Unwrap() error {
	return rabe.ErrAuthenticationFailed
}

// DeriveKey hashes the canonical string form of elem with SHA3-256. Equal
// elements always derive the same key.
func DeriveKey(elem fmt.Stringer) Key {
	return Key(sha3.Sum256([]byte(elem.String())))
}

func newAEAD(key *Key) (ccm.CCM, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, rabe.NewError("symmetric", "", fmt.Errorf("%w: %v", rabe.ErrSymmetricCipher, err))
	}
	aead, err := ccm.NewCCM(block, TagSize, NonceSize)
	if err != nil {
		return nil, rabe.NewError("symmetric", "", fmt.Errorf("%w: %v", rabe.ErrSymmetricCipher, err))
	}
	return aead, nil
}

// Encrypt seals plaintext under key with a fresh nonce read from rng. The
// plaintext buffer is not modified. A 13-byte nonce leaves a 2-byte length
// field, so plaintexts longer than 65535 bytes fail with
// rabe.ErrSymmetricCipher.
func Encrypt(key *Key, plaintext []byte, rng io.Reader) (*Envelope, error) {
	if key == nil || rng == nil {
		return nil, rabe.NewError("Encrypt", "", rabe.ErrInvalidParameter)
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	if limit := aead.MaxLength(); len(plaintext) > limit {
		return nil, rabe.NewError("Encrypt", "", fmt.Errorf("%w: plaintext exceeds %d bytes", rabe.ErrSymmetricCipher, limit))
	}

	env := &Envelope{}
	if _, err := io.ReadFull(rng, env.Nonce[:]); err != nil {
		return nil, rabe.NewError("Encrypt", "", fmt.Errorf("read nonce: %w", err))
	}

	sealed := aead.Seal(nil, env.Nonce[:], plaintext, nil)
	n := len(sealed) - TagSize
	env.Ciphertext = sealed[:n:n]
	copy(env.Tag[:], sealed[n:])
	return env, nil
}

// Decrypt verifies and opens env. On a tag mismatch it returns a
// *DecryptError wrapping rabe.ErrAuthenticationFailed; env is never modified.
func Decrypt(key *Key, env *Envelope) ([]byte, error) {
	if key == nil || env == nil {
		return nil, rabe.NewError("Decrypt", "", rabe.ErrInvalidParameter)
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	// Nothing longer can have been produced by Encrypt.
	if len(env.Ciphertext) > aead.MaxLength() {
		return nil, &DecryptError{Envelope: env}
	}

	buf := make([]byte, 0, len(env.Ciphertext)+TagSize)
	buf = append(buf, env.Ciphertext...)
	buf = append(buf, env.Tag[:]...)

	plaintext, err := aead.Open(nil, env.Nonce[:], buf, nil)
	if err != nil {
		return nil, &DecryptError{Envelope: env}
	}
	return plaintext, nil
}

// EncryptWith derives the key from elem, encrypts and wipes the key.
func EncryptWith(elem fmt.Stringer, plaintext []byte, rng io.Reader) (*Envelope, error) {
	key := DeriveKey(elem)
	defer key.Zeroize()
	return Encrypt(&key, plaintext, rng)
}

// DecryptWith derives the key from elem, decrypts and wipes the key.
func DecryptWith(elem fmt.Stringer, env *Envelope) ([]byte, error) {
	key := DeriveKey(elem)
	defer key.Zeroize()
	return Decrypt(&key, env)
}
