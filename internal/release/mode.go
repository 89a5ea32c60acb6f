package release

import (
	"fmt"
	"strings"

	"github.com/indaco/nupub/internal/semver"
)

// Mode selects what a pipeline run does: bump-and-publish for the three
// bump kinds, or publish the current versions as-is.
type Mode string

const (
	ModeMajor       Mode = "major"
	ModeMinor       Mode = "minor"
	ModePatch       Mode = "patch"
	ModePublishOnly Mode = "publish-only"
)

// ParseMode converts a string to a Mode, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return ModeMajor, nil
	case "minor":
		return ModeMinor, nil
	case "patch":
		return ModePatch, nil
	case "publish-only":
		return ModePublishOnly, nil
	default:
		return "", fmt.Errorf("invalid mode: %q (must be one of: major, minor, patch, publish-only)", s)
	}
}

// IsBump reports whether the mode mutates manifest versions.
func (m Mode) IsBump() bool {
	return m != ModePublishOnly
}

// BumpKind returns the semver bump kind for a bump mode.
// Calling it on publish-only is a programming error.
func (m Mode) BumpKind() (semver.BumpKind, error) {
	if !m.IsBump() {
		return "", fmt.Errorf("mode %q performs no version bump", m)
	}
	return semver.ParseBumpKind(string(m))
}
