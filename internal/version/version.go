// Package version carries build metadata stamped at link time via
// -ldflags, e.g.
//
//	go build -ldflags "-X skydeck/internal/version.Version=v1.2.0 \
//	    -X skydeck/internal/version.Commit=$(git rev-parse --short HEAD) \
//	    -X skydeck/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "fmt"

// Defaults apply to unstamped development builds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String renders the build metadata as a single line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
}
