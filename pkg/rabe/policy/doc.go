// Package policy defines the access-policy tree consumed by the span program
// compiler and the DNF aggregator.
//
// A policy is a closed tagged union of three node kinds:
//
//	policy.Attr("A")                       // leaf
//	policy.And(left, right)                // exactly two operands, order matters
//	policy.Or(child1, child2, ...)         // two or more children
//
// Trees can also be lowered from their JSON form, which rejects malformed
// shapes immediately:
//
//	n, err := policy.ParseJSON([]byte(`{"OR":[{"ATT":"A"},{"AND":[{"ATT":"B"},{"ATT":"C"}]}]}`))
//
// Evaluate is a reference boolean evaluator used to cross-check span programs.
package policy
