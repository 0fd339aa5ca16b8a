// Package lsss is the linear secret-sharing engine over monotone span
// programs.
//
// GenerateShares distributes a scalar secret with one share per span program
// row. Prune decides whether a set of attributes satisfies the program and,
// if so, returns a minimal set of rows with coefficients c_i such that
// sum c_i * row_i = (1, 0, ..., 0). Reconstruct and ReconstructGT apply those
// coefficients to field shares or to GT elements respectively.
//
// Shares are secret material; they must stay with the key object that owns
// them and must never be logged.
package lsss
