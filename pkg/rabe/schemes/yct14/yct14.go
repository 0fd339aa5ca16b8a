package yct14

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/fentec-project/bn256"

	"github.com/dabch/rabe/pkg/rabe"
	"github.com/dabch/rabe/pkg/rabe/field"
	"github.com/dabch/rabe/pkg/rabe/logging"
	"github.com/dabch/rabe/pkg/rabe/lsss"
	"github.com/dabch/rabe/pkg/rabe/msp"
	"github.com/dabch/rabe/pkg/rabe/policy"
	"github.com/dabch/rabe/pkg/rabe/symmetric"
)

// PublicKey is published by the authority.
type PublicKey struct {
	// G is gt^s for the master secret s.
	G *bn256.GT
	// Attributes maps every attribute in the universe to gt^{s_i}.
	Attributes map[string]*bn256.GT
}

// MasterKey is kept by the authority. Call Free once it is no longer needed.
type MasterKey struct {
	S          *big.Int
	Attributes map[string]*big.Int
}

// Free wipes the scalars of the master key.
func (m *MasterKey) Free() {
	if m == nil {
		return
	}
	rabe.ZeroizeInt(m.S)
	for _, v := range m.Attributes {
		rabe.ZeroizeInt(v)
	}
}

// SecretKey is bound to a policy. D holds one component per span program row.
type SecretKey struct {
	Policy policy.Node
	MSP    *msp.MSP
	D      []*big.Int
}

// Ciphertext is labelled with a set of attributes.
type Ciphertext struct {
	Attributes map[string]*bn256.GT
	Envelope   *symmetric.Envelope
}

// Scheme runs the YCT14 key-policy construction.
type Scheme struct {
	cfg    rabe.Config
	logger logging.Logger
}

// New returns a Scheme using the collaborators in cfg.
func New(cfg rabe.Config) *Scheme {
	return &Scheme{cfg: cfg, logger: cfg.LoggerOrDefault().With("scheme", "yct14")}
}

// Setup samples the master secret and one secret per attribute of the
// universe.
func (s *Scheme) Setup(ctx context.Context, attrs []string) (*PublicKey, *MasterKey, error) {
	if len(attrs) == 0 {
		return nil, nil, rabe.NewError("Setup", "", fmt.Errorf("empty attribute universe: %w", rabe.ErrInvalidParameter))
	}
	rng := s.cfg.RandOrDefault()

	master, err := field.RandomNonZero(rng)
	if err != nil {
		return nil, nil, rabe.NewError("Setup", "", err)
	}
	pk := &PublicKey{G: new(bn256.GT).ScalarBaseMult(master), Attributes: make(map[string]*bn256.GT, len(attrs))}
	msk := &MasterKey{S: master, Attributes: make(map[string]*big.Int, len(attrs))}

	for _, a := range attrs {
		if a == "" {
			return nil, nil, rabe.NewError("Setup", "", fmt.Errorf("empty attribute name: %w", rabe.ErrInvalidParameter))
		}
		if _, dup := msk.Attributes[a]; dup {
			continue
		}
		si, err := field.RandomNonZero(rng)
		if err != nil {
			return nil, nil, rabe.NewError("Setup", "", err)
		}
		msk.Attributes[a] = si
		pk.Attributes[a] = new(bn256.GT).ScalarBaseMult(si)
	}
	s.logger.Debug(ctx, "setup complete", "attributes", len(msk.Attributes))
	return pk, msk, nil
}

// KeyGenParams collects the inputs of KeyGen.
type KeyGenParams struct {
	PublicKey *PublicKey
	MasterKey *MasterKey
	Policy    policy.Node
}

// KeyGen issues a secret key for a policy. Every attribute of the policy
// must be part of the universe.
func (s *Scheme) KeyGen(ctx context.Context, params *KeyGenParams) (*SecretKey, error) {
	if params == nil || params.PublicKey == nil || params.MasterKey == nil || params.MasterKey.S == nil {
		return nil, rabe.NewError("KeyGen", "", rabe.ErrInvalidParameter)
	}
	if err := policy.Validate(params.Policy); err != nil {
		return nil, err
	}
	m, err := msp.Compile(params.Policy)
	if err != nil {
		return nil, err
	}

	shares, err := lsss.GenerateShares(m, params.MasterKey.S, s.cfg.RandOrDefault())
	if err != nil {
		return nil, rabe.NewError("KeyGen", "", err)
	}
	if s.cfg.EnableZeroization {
		defer func() {
			for _, sh := range shares {
				rabe.ZeroizeInt(sh.Value)
			}
		}()
	}

	sk := &SecretKey{Policy: params.Policy, MSP: m, D: make([]*big.Int, len(shares))}
	for _, sh := range shares {
		si, ok := params.MasterKey.Attributes[sh.Attribute]
		if !ok {
			return nil, rabe.NewError("KeyGen", "", fmt.Errorf("attribute %q: %w", sh.Attribute, rabe.ErrUnresolvedAttribute))
		}
		inv, err := field.Inverse(si)
		if err != nil {
			return nil, rabe.NewError("KeyGen", "", err)
		}
		sk.D[sh.Row] = field.Reduce(inv.Mul(inv, sh.Value))
	}
	s.logger.Debug(ctx, "key issued", "rows", len(m.Rows), "degree", m.Degree)
	return sk, nil
}

// EncryptParams collects the inputs of Encrypt.
type EncryptParams struct {
	PublicKey  *PublicKey
	Attributes []string
	Plaintext  []byte
}

// Encrypt labels plaintext with attrs. The payload is sealed under a key
// derived from G^k for a fresh scalar k.
func (s *Scheme) Encrypt(ctx context.Context, params *EncryptParams) (*Ciphertext, error) {
	if params == nil || params.PublicKey == nil || params.PublicKey.G == nil {
		return nil, rabe.NewError("Encrypt", "", rabe.ErrInvalidParameter)
	}
	if len(params.Attributes) == 0 || len(params.Plaintext) == 0 {
		return nil, rabe.NewError("Encrypt", "", fmt.Errorf("empty attributes or plaintext: %w", rabe.ErrInvalidParameter))
	}
	rng := s.cfg.RandOrDefault()

	k, err := field.RandomNonZero(rng)
	if err != nil {
		return nil, rabe.NewError("Encrypt", "", err)
	}
	if s.cfg.EnableZeroization {
		defer rabe.ZeroizeInt(k)
	}

	ct := &Ciphertext{Attributes: make(map[string]*bn256.GT, len(params.Attributes))}
	for _, a := range params.Attributes {
		pa, ok := params.PublicKey.Attributes[a]
		if !ok {
			return nil, rabe.NewError("Encrypt", "", fmt.Errorf("attribute %q: %w", a, rabe.ErrUnresolvedAttribute))
		}
		ct.Attributes[a] = new(bn256.GT).ScalarMult(pa, k)
	}

	ct.Envelope, err = symmetric.EncryptWith(new(bn256.GT).ScalarMult(params.PublicKey.G, k), params.Plaintext, rng)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "encrypted", "attributes", len(ct.Attributes), "bytes", len(params.Plaintext))
	return ct, nil
}

// Decrypt opens ct if its attributes satisfy the policy of sk. It returns
// rabe.ErrPolicyNotSatisfied when they do not and
// rabe.ErrAuthenticationFailed, as a *symmetric.DecryptError, when the
// payload does not verify.
func (s *Scheme) Decrypt(ctx context.Context, sk *SecretKey, ct *Ciphertext) ([]byte, error) {
	if sk == nil || sk.MSP == nil || ct == nil || ct.Envelope == nil {
		return nil, rabe.NewError("Decrypt", "", rabe.ErrInvalidParameter)
	}
	if len(sk.D) != len(sk.MSP.Rows) {
		return nil, rabe.NewError("Decrypt", "", fmt.Errorf("key has %d components for %d rows: %w", len(sk.D), len(sk.MSP.Rows), rabe.ErrInvalidParameter))
	}

	attrs := make([]string, 0, len(ct.Attributes))
	for a := range ct.Attributes {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)

	set, err := lsss.Prune(attrs, sk.MSP)
	if err != nil {
		return nil, rabe.NewError("Decrypt", "", err)
	}

	values := make(map[int]*bn256.GT, len(set.Rows))
	for i, row := range set.Rows {
		e := ct.Attributes[set.Attributes[i]]
		if e == nil || sk.D[row] == nil {
			return nil, rabe.NewError("Decrypt", "", fmt.Errorf("row %d (%s): %w", row, set.Attributes[i], rabe.ErrUnresolvedAttribute))
		}
		values[row] = new(bn256.GT).ScalarMult(e, sk.D[row])
	}
	elem, err := lsss.ReconstructGT(set, values)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "policy satisfied", "rows", len(set.Rows))
	return symmetric.DecryptWith(elem, ct.Envelope)
}
