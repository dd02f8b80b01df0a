package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String renders the version triple in a single line for CLI output.
func String() string {
	return fmt.Sprintf("ulens %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
