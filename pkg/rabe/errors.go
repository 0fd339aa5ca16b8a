package rabe

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedPolicy indicates a policy node with an unrecognized shape
	// (missing tag, several tags, empty attribute name).
	ErrMalformedPolicy = errors.New("rabe: malformed policy")

	// ErrInvalidArity indicates an AND gate without exactly two children or an
	// OR gate with fewer than two.
	ErrInvalidArity = errors.New("rabe: invalid gate arity")

	// ErrNotInDNF indicates an OR gate nested below an AND gate where a
	// disjunctive normal form policy is required.
	ErrNotInDNF = errors.New("rabe: policy not in disjunctive normal form")

	// ErrUnresolvedAttribute indicates an attribute without matching key
	// material or share.
	ErrUnresolvedAttribute = errors.New("rabe: unresolved attribute")

	// ErrPolicyNotSatisfied indicates that an attribute set does not span the
	// target vector of a span program. Callers should treat it as an
	// authorization failure.
	ErrPolicyNotSatisfied = errors.New("rabe: policy not satisfied")

	// ErrAuthenticationFailed indicates an AEAD tag mismatch.
	ErrAuthenticationFailed = errors.New("rabe: authentication failed")

	// ErrSymmetricCipher indicates that the underlying cipher rejected its input.
	ErrSymmetricCipher = errors.New("rabe: symmetric cipher failure")

	// ErrInvalidParameter indicates an invalid argument (nil key, empty input).
	ErrInvalidParameter = errors.New("rabe: invalid parameter")
)

// Error attaches an operation and, for policy errors, the position inside the
// policy tree to an underlying error.
type Error struct {
	Op   string // Operation that failed
	Path string // Policy path such as "OR[1]/AND[0]", may be empty
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rabe.%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("rabe.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err for operation op at the given policy path.
func NewError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}
