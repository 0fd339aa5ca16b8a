// Package rabe is the root of an attribute-based encryption toolkit.
//
// The toolkit turns boolean policies over named attributes into the
// linear-algebraic objects consumed by pairing-based ABE schemes and performs
// the symmetric half of hybrid encryption. This package holds the pieces
// shared by every subpackage: the error taxonomy, Config, zeroization helpers
// and version information.
//
// # Subpackages
//
//   - policy: the AND/OR/attribute policy tree and its JSON form
//   - msp: Lewko-Waters compiler from a policy tree to a monotone span program
//   - dnf: DNF validation and per-conjunction key aggregation (multi-authority)
//   - lsss: secret sharing over an MSP, pruning and reconstruction
//   - symmetric: key derivation from group elements and AES-256-CCM
//   - hash: hashing strings into the scalar field, G1 and G2
//   - schemes/yct14: a complete key-policy scheme built from the above
//
// # Errors
//
// All failures are returned as values. Use errors.Is against the sentinel
// errors declared here:
//
//	set, err := lsss.Prune(attrs, program)
//	if errors.Is(err, rabe.ErrPolicyNotSatisfied) {
//	    // authorization failure, not a cryptographic fault
//	}
//
// # Randomness
//
// Every randomized primitive takes an explicit io.Reader and schemes take
// theirs from Config.Rand. Concurrent callers must either pass distinct
// readers or synchronize a shared one.
package rabe
