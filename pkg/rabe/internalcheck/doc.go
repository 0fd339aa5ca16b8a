// Package internalcheck holds static checks run as tests over the toolkit's
// library packages: no == on byte slices or arrays, no %x formatting of
// values that may be secret, and no math/rand outside tests.
//
// It exports nothing and is not meant to be imported.
package internalcheck
