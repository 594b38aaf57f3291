// Package version provides version information for the agent.
package version

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version of the agent.
	Version = "1.0.0"

	// BuildTime is the time the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// Info returns version information as a map
func Info() map[string]string {
	return map[string]string{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}
}
