// Package logging provides a minimal logging facade for the rabe toolkit.
//
// The Logger interface wraps a subset of log/slog with context-aware methods.
// Applications can plug in their own implementation, bind to an existing
// *slog.Logger with New, or silence the toolkit with Discard.
//
// The core emits a single kind of record: a warning from the DNF aggregator
// when a policy references an attribute that has no key material. Schemes add
// debug records carrying sizes and counts only. Shares,
// coefficients, derived keys and plaintext are never logged; use Redacted to
// mark where such a value was deliberately left out:
//
//	logger.Debug(ctx, "derived key", logging.Redacted("key"))
//	// Logs: key="[redacted]"
package logging
