package rabe

import (
	"crypto/rand"
	"io"

	"github.com/dabch/rabe/pkg/rabe/logging"
)

// Config carries the collaborators shared by scheme orchestration code.
// The zero value is usable: every accessor falls back to a sane default.
type Config struct {
	// Logger receives the few caller-visible warnings the toolkit emits.
	// Nil binds to slog.Default().
	Logger logging.Logger

	// Rand is the entropy source for sampling scalars and nonces. Nil binds
	// to crypto/rand.Reader. A non-nil reader must not be shared between
	// goroutines without external synchronization.
	Rand io.Reader

	// EnableZeroization wipes derived keys and master-key scalars once they
	// are no longer needed.
	EnableZeroization bool
}

// LoggerOrDefault returns the configured logger or a slog.Default() facade.
func (c Config) LoggerOrDefault() logging.Logger {
	if c.Logger == nil {
		return logging.New(nil)
	}
	return c.Logger
}

// RandOrDefault returns the configured entropy source or crypto/rand.Reader.
func (c Config) RandOrDefault() io.Reader {
	if c.Rand == nil {
		return rand.Reader
	}
	return c.Rand
}
