// Package version carries the silica build fingerprints. Release builds
// override these through -ldflags; a bare `go build` yields the -dev form
// with no commit or date.
package version

var (
	// Version is the toolchain's semantic version.
	Version = "0.1.0-dev"

	// GitCommit is the revision the binary was built from, when stamped.
	GitCommit = ""

	// BuildDate is the ISO-8601 build timestamp, when stamped.
	BuildDate = ""
)
