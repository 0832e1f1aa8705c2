// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X spectral-viewer/internal/version.Version=..."
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns e.g. "0.1.0 (abc1234, built 2024-05-01T10:00:00Z)".
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildTime)
}
