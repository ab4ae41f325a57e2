package version

import "fmt"

// Version is set at build time via ldflags:
// go build -ldflags "-X github.com/blogsmith/blogsmith/internal/version.Version=v1.2.0".
var Version = "unknown"

// Build metadata, also injected via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line human-readable version string.
func String() string {
	return fmt.Sprintf("blogsmith %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
