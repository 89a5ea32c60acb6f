// Package version exposes the nupub tool version.
package version

const version = "0.1.0"

// GetVersion returns the current tool version.
func GetVersion() string {
	return version
}
