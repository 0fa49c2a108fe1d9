// Package version holds build information set at link time.
package version

// Version is the release of the snake, set with
// -ldflags "-X github.com/battlesnakeio/zerocool/version.Version=...".
var Version = "dev"

// Commit is the source revision the binary was built from.
var Commit = "unknown"

// String formats the version for display.
func String() string {
	return Version + " (" + Commit + ")"
}
