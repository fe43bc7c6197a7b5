// Package version carries the build metadata shown in the About dialog.
package version

// Set at build time via -ldflags, e.g.
//
//	go build -ldflags "-X image-protractor/internal/version.Version=1.2.0"
var (
	// Version is the semantic version.
	Version = "0.1.0"

	// BuildTime is the UTC time the binary was built.
	BuildTime = "unknown"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)
