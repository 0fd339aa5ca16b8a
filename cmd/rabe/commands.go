package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/fentec-project/bn256"

	"github.com/dabch/rabe/pkg/rabe"
	"github.com/dabch/rabe/pkg/rabe/dnf"
	"github.com/dabch/rabe/pkg/rabe/hash"
	"github.com/dabch/rabe/pkg/rabe/lsss"
	"github.com/dabch/rabe/pkg/rabe/msp"
	"github.com/dabch/rabe/pkg/rabe/policy"
	"github.com/dabch/rabe/pkg/rabe/schemes/yct14"
)

type policyArg struct {
	Policy string `positional-arg-name:"policy-json" required:"yes"`
}

type policyAttrsArgs struct {
	Policy     string   `positional-arg-name:"policy-json" required:"yes"`
	Attributes []string `positional-arg-name:"attribute"`
}

func parsePolicy(js string) (policy.Node, error) {
	n, err := policy.ParseJSON([]byte(js))
	if err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	return n, nil
}

type compileCommand struct {
	env  *environment
	Args policyArg `positional-args:"yes"`
}

func (c *compileCommand) Execute(_ []string) error {
	n, err := parsePolicy(c.Args.Policy)
	if err != nil {
		return err
	}
	m, err := msp.Compile(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.env.stdout, "policy: %s\n", n)
	fmt.Fprint(c.env.stdout, m)
	return nil
}

type dnfCommand struct {
	env  *environment
	Args policyArg `positional-args:"yes"`
}

func (c *dnfCommand) Execute(_ []string) error {
	n, err := parsePolicy(c.Args.Policy)
	if err != nil {
		return err
	}
	if dnf.IsInDNF(n) {
		fmt.Fprintln(c.env.stdout, "in DNF")
	} else {
		fmt.Fprintln(c.env.stdout, "not in DNF")
	}
	return nil
}

type satisfyCommand struct {
	env  *environment
	Args policyAttrsArgs `positional-args:"yes"`
}

func (c *satisfyCommand) Execute(_ []string) error {
	n, err := parsePolicy(c.Args.Policy)
	if err != nil {
		return err
	}
	m, err := msp.Compile(n)
	if err != nil {
		return err
	}

	set, err := lsss.Prune(c.Args.Attributes, m)
	if errors.Is(err, rabe.ErrPolicyNotSatisfied) {
		fmt.Fprintln(c.env.stdout, "not satisfied")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.env.stdout, "satisfied")
	for i, row := range set.Rows {
		fmt.Fprintf(c.env.stdout, "%3d %-12s %v\n", row, set.Attributes[i], set.Coefficients[i])
	}
	return nil
}

type aggregateCommand struct {
	env  *environment
	Skip []string  `long:"skip" description:"attribute to leave without key material (repeatable)"`
	Args policyArg `positional-args:"yes"`
}

func (c *aggregateCommand) Execute(_ []string) error {
	n, err := parsePolicy(c.Args.Policy)
	if err != nil {
		return err
	}

	skip := make(map[string]struct{}, len(c.Skip))
	for _, s := range c.Skip {
		skip[s] = struct{}{}
	}
	keys := make(map[string]*dnf.AttributeKey)
	for _, a := range policy.Attributes(n) {
		if _, ok := skip[a]; ok {
			continue
		}
		keys[a] = demoKey(c.env.file.Authority, a)
	}

	agg, err := dnf.FromPolicy(context.Background(), n, keys, c.env.logger.With("command", "aggregate"))
	if err != nil {
		return err
	}
	for i, t := range agg.Terms {
		fmt.Fprintf(c.env.stdout, "%d: %s\n", i, strings.Join(t.Attributes, " and "))
	}
	return nil
}

// demoKey derives public key material for attr by hashing it onto each
// group. It stands in for the keys an authority would publish.
func demoKey(authority, attr string) *dnf.AttributeKey {
	one := big.NewInt(1)
	label := func(part string) []byte {
		return []byte(authority + "/" + part + "/" + attr)
	}
	gt := new(bn256.GT).ScalarBaseMult(one)
	return &dnf.AttributeKey{
		GT1: hash.ToGT(gt, label("gt1")),
		GT2: hash.ToGT(gt, label("gt2")),
		G1:  hash.ToG1(new(bn256.G1).ScalarBaseMult(one), label("g1")),
		G2:  hash.ToG2(new(bn256.G2).ScalarBaseMult(one), label("g2")),
	}
}

type kpabeCommand struct {
	env     *environment
	Message string          `long:"message" default:"hello, attributes" description:"plaintext to encrypt"`
	Args    policyAttrsArgs `positional-args:"yes"`
}

func (c *kpabeCommand) Execute(_ []string) error {
	ctx := context.Background()
	n, err := parsePolicy(c.Args.Policy)
	if err != nil {
		return err
	}

	universe := append(policy.Attributes(n), c.Args.Attributes...)
	s := yct14.New(c.env.cfg)
	pk, msk, err := s.Setup(ctx, universe)
	if err != nil {
		return err
	}
	defer msk.Free()

	sk, err := s.KeyGen(ctx, &yct14.KeyGenParams{PublicKey: pk, MasterKey: msk, Policy: n})
	if err != nil {
		return err
	}
	ct, err := s.Encrypt(ctx, &yct14.EncryptParams{PublicKey: pk, Attributes: c.Args.Attributes, Plaintext: []byte(c.Message)})
	if err != nil {
		return err
	}

	pt, err := s.Decrypt(ctx, sk, ct)
	switch {
	case errors.Is(err, rabe.ErrPolicyNotSatisfied):
		fmt.Fprintln(c.env.stdout, "decryption failed: attributes insufficient")
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(c.env.stdout, "decrypted: %s\n", pt)
	return nil
}

type versionCommand struct {
	env *environment
}

func (c *versionCommand) Execute(_ []string) error {
	fmt.Fprintf(c.env.stdout, "rabe %s\n", rabe.LibraryVersion())
	return nil
}
