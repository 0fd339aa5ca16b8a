// Package msp compiles policy trees into monotone span programs.
//
// The compiler follows Lewko and Waters (Appendix G of ePrint 2010/351) with
// a sign convention in which both operands of an AND inherit the parent
// vector: the left operand extends it with +1 and the right with -1 in a
// freshly opened column. A set of rows spans the target (1, 0, ..., 0)
// exactly when the corresponding attributes satisfy the policy.
//
// For {"OR":[{"AND":[A,B]},{"AND":[C,D]}]} the program is
//
//	A  [1  1  0]
//	B  [1 -1  0]
//	C  [1  0  1]
//	D  [1  0 -1]
//
// Traversal uses an explicit stack, so policy depth is bounded only by memory.
package msp
