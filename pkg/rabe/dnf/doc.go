// Package dnf validates disjunctive normal form policies and aggregates
// per-attribute public keys along each conjunction, as needed by
// multi-authority schemes.
//
// The aggregated terms are sorted by ascending conjunction size. Consumers
// rely on that order to try the cheapest matching conjunction first.
package dnf
