// Package semver implements the strict major.minor.patch version model
// used by NuGet package manifests.
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SemVersion represents a semantic version triple (major.minor.patch).
type SemVersion struct {
	Major int
	Minor int
	Patch int
}

// errInvalidVersion is returned when a version string does not conform
// to the expected major.minor.patch format.
var errInvalidVersion = errors.New("invalid version format")

// String returns the dotted-decimal representation of the version.
func (v SemVersion) String() string {
	var sb strings.Builder
	sb.Grow(12)
	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Patch))
	return sb.String()
}

// ParseVersion parses a strict "x.y.z" version string.
//
// The input must split into exactly three dot-separated components, each a
// non-negative base-10 integer. Anything else (pre-release labels, build
// metadata, a "v" prefix, missing or extra components) is rejected with a
// wrapped errInvalidVersion.
func ParseVersion(s string) (SemVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return SemVersion{}, fmt.Errorf("%w: expected x.y.z, got %q", errInvalidVersion, s)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return SemVersion{}, fmt.Errorf("%w: component %q is not an integer", errInvalidVersion, part)
		}
		if n < 0 {
			return SemVersion{}, fmt.Errorf("%w: component %q is negative", errInvalidVersion, part)
		}
		nums[i] = n
	}

	return SemVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Compare compares two versions lexicographically on the triple.
// It returns -1 if v < other, 0 if v == other, and +1 if v > other.
func (v SemVersion) Compare(other SemVersion) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
