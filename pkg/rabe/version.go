package rabe

// Version is populated at build time via
// -ldflags "-X github.com/dabch/rabe/pkg/rabe.Version=...".
var Version = "v0.0.0-in-progress"

// LibraryVersion returns the semantic version of the toolkit.
func LibraryVersion() string {
	return Version
}
