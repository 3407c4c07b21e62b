package metaclean

import "runtime"

// Version is the semantic version of the metaclean library.
const Version = "0.1.0"

// Populated at build time via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/simonhull/metaclean.gitCommit=$(git rev-parse --short HEAD)"
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)

// VersionInfo describes the library build.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
}

// GetVersionInfo returns the library version together with the build
// metadata injected via -ldflags. GitCommit and BuildTime read
// "unknown" in builds that did not set them.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}
