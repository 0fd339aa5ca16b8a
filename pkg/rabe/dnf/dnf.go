package dnf

import (
	"context"
	"fmt"
	"sort"

	"github.com/fentec-project/bn256"

	"github.com/dabch/rabe/pkg/rabe"
	"github.com/dabch/rabe/pkg/rabe/logging"
	"github.com/dabch/rabe/pkg/rabe/policy"
)

// AttributeKey is the public key material an authority publishes for one
// attribute.
type AttributeKey struct {
	GT1 *bn256.GT
	GT2 *bn256.GT
	G1  *bn256.G1
	G2  *bn256.G2
}

// Term is one aggregated conjunction: the GT components of its attributes
// multiplied together and the G1/G2 components added.
type Term struct {
	Attributes []string
	GT1        *bn256.GT
	GT2        *bn256.GT
	G1         *bn256.G1
	G2         *bn256.G2
}

// Policy is a DNF policy with one aggregated term per conjunction, sorted by
// ascending conjunction size.
type Policy struct {
	Terms []Term
}

// IsInDNF reports whether no OR gate appears below an AND gate. Nil or
// unrecognized nodes and empty attribute names make the policy invalid.
func IsInDNF(n policy.Node) bool {
	return inDNF(n, false)
}

func inDNF(n policy.Node, inConjunction bool) bool {
	switch node := n.(type) {
	case policy.AttributeNode:
		return node.Name != ""
	case policy.AndNode:
		return inDNF(node.Left, true) && inDNF(node.Right, true)
	case policy.OrNode:
		if inConjunction {
			return false
		}
		for _, c := range node.Children {
			if !inDNF(c, false) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromPolicy validates that n is in DNF and aggregates it. It returns
// rabe.ErrNotInDNF before touching any key material if the check fails.
func FromPolicy(ctx context.Context, n policy.Node, keys map[string]*AttributeKey, logger logging.Logger) (*Policy, error) {
	if !IsInDNF(n) {
		return nil, rabe.NewError("FromPolicy", "", rabe.ErrNotInDNF)
	}
	return Aggregate(ctx, n, keys, logger)
}

// Aggregate walks n depth first. Every branch of an OR opens a new term and
// all attributes of a conjunction accumulate into the same term. Attributes
// without an entry in keys are skipped with a warning on logger; a term is
// only created once one of its attributes resolves. The terms are finally
// sorted by size, keeping encounter order among equal sizes.
//
// Aggregate does not check that n is in DNF; grouping is undefined otherwise.
// Use FromPolicy to validate first.
func Aggregate(ctx context.Context, n policy.Node, keys map[string]*AttributeKey, logger logging.Logger) (*Policy, error) {
	if logger == nil {
		logger = logging.New(nil)
	}
	a := &aggregator{ctx: ctx, keys: keys, logger: logger, index: make(map[int]int)}
	if err := a.walk(n, a.newSlot(), ""); err != nil {
		return nil, err
	}
	sort.SliceStable(a.terms, func(i, j int) bool {
		return len(a.terms[i].Attributes) < len(a.terms[j].Attributes)
	})
	return &Policy{Terms: a.terms}, nil
}

type aggregator struct {
	ctx    context.Context
	keys   map[string]*AttributeKey
	logger logging.Logger

	slots int
	index map[int]int // slot -> position in terms
	terms []Term
}

func (a *aggregator) newSlot() int {
	s := a.slots
	a.slots++
	return s
}

func (a *aggregator) walk(n policy.Node, slot int, path string) error {
	switch node := n.(type) {
	case policy.AttributeNode:
		if node.Name == "" {
			return rabe.NewError("Aggregate", policy.Path(path, policy.TagAttribute, -1), rabe.ErrMalformedPolicy)
		}
		a.add(node.Name, slot, path)
		return nil
	case policy.AndNode:
		if err := a.walk(node.Left, slot, policy.Path(path, policy.TagAnd, 0)); err != nil {
			return err
		}
		return a.walk(node.Right, slot, policy.Path(path, policy.TagAnd, 1))
	case policy.OrNode:
		for i, c := range node.Children {
			if err := a.walk(c, a.newSlot(), policy.Path(path, policy.TagOr, i)); err != nil {
				return err
			}
		}
		return nil
	default:
		return rabe.NewError("Aggregate", path, fmt.Errorf("unrecognized node %T: %w", n, rabe.ErrMalformedPolicy))
	}
}

func (a *aggregator) add(name string, slot int, path string) {
	k, ok := a.keys[name]
	if !ok || k == nil || k.GT1 == nil || k.GT2 == nil || k.G1 == nil || k.G2 == nil {
		a.logger.Warn(a.ctx, "attribute has no key material, skipping", "attribute", name, "path", policy.Path(path, policy.TagAttribute, -1))
		return
	}

	pos, ok := a.index[slot]
	if !ok {
		a.index[slot] = len(a.terms)
		a.terms = append(a.terms, Term{
			Attributes: []string{name},
			GT1:        new(bn256.GT).Set(k.GT1),
			GT2:        new(bn256.GT).Set(k.GT2),
			G1:         new(bn256.G1).Set(k.G1),
			G2:         new(bn256.G2).Set(k.G2),
		})
		return
	}

	t := &a.terms[pos]
	t.Attributes = append(t.Attributes, name)
	t.GT1.Add(t.GT1, k.GT1)
	t.GT2.Add(t.GT2, k.GT2)
	t.G1.Add(t.G1, k.G1)
	t.G2.Add(t.G2, k.G2)
}

// Match returns the smallest term whose attributes are all in attrs.
func (p *Policy) Match(attrs []string) (*Term, bool) {
	held := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		held[a] = struct{}{}
	}
	for i := range p.Terms {
		all := true
		for _, name := range p.Terms[i].Attributes {
			if _, ok := held[name]; !ok {
				all = false
				break
			}
		}
		if all {
			return &p.Terms[i], true
		}
	}
	return nil, false
}
