package semver

import (
	"fmt"
	"strings"
)

// BumpKind selects which component of a version to increment.
type BumpKind string

const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// ParseBumpKind converts a string to a BumpKind, case-insensitively.
func ParseBumpKind(s string) (BumpKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return BumpMajor, nil
	case "minor":
		return BumpMinor, nil
	case "patch":
		return BumpPatch, nil
	default:
		return "", fmt.Errorf("invalid bump kind: %q (must be one of: major, minor, patch)", s)
	}
}

// Upper returns the kind in upper case, as used in commit messages.
func (k BumpKind) Upper() string {
	return strings.ToUpper(string(k))
}

// Bump returns the version with the targeted component incremented and
// all lower-significance components reset to zero.
func (v SemVersion) Bump(kind BumpKind) (SemVersion, error) {
	switch kind {
	case BumpMajor:
		return SemVersion{Major: v.Major + 1, Minor: 0, Patch: 0}, nil
	case BumpMinor:
		return SemVersion{Major: v.Major, Minor: v.Minor + 1, Patch: 0}, nil
	case BumpPatch:
		return SemVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return SemVersion{}, fmt.Errorf("unknown bump kind: %s", kind)
	}
}
