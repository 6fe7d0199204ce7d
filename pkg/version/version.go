// Package version reports the build version of cintel. The values are set at build time:
//
//	go build -ldflags "-X github.com/rshade/cintel/pkg/version.version=v1.2.3 -X github.com/rshade/cintel/pkg/version.commit=abc123"
package version

import "fmt"

//nolint:gochecknoglobals // Set by the linker.
var (
	version = "dev"
	commit  = "none"
)

// GetVersion returns the semantic version of the build.
func GetVersion() string { return version }

// GetCommit returns the VCS commit of the build.
func GetCommit() string { return commit }

// String returns version and commit for --version output.
func String() string { return fmt.Sprintf("%s (commit %s)", version, commit) }
