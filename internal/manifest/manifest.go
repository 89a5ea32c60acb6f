// Package manifest reads and edits MSBuild project manifests (*.csproj).
//
// Manifests carry three declarations nupub cares about: <Version>x.y.z</Version>,
// <PackageId> and <IsPackable>. Tag matching is case-insensitive and
// whitespace-tolerant; everything around a declaration is preserved verbatim
// when rewriting.
package manifest

import (
	"regexp"
	"strings"
)

var (
	versionRe   = regexp.MustCompile(`(?i)(<Version>\s*)(\d+\.\d+\.\d+)(\s*</Version>)`)
	packageIDRe = regexp.MustCompile(`(?i)<PackageId>\s*([^<]+?)\s*</PackageId>`)
	packableRe  = regexp.MustCompile(`(?i)<IsPackable>\s*([^<]+?)\s*</IsPackable>`)
)

// ExtractVersions returns every version declaration value in the manifest,
// in document order.
func ExtractVersions(content []byte) []string {
	matches := versionRe.FindAllSubmatch(content, -1)
	versions := make([]string, 0, len(matches))
	for _, m := range matches {
		versions = append(versions, string(m[2]))
	}
	return versions
}

// ReplaceVersion rewrites every version declaration to newVersion,
// preserving the surrounding markup. It returns the updated content and the
// number of declarations replaced; zero means the manifest held no version
// declaration at all.
func ReplaceVersion(content []byte, newVersion string) ([]byte, int) {
	count := 0
	updated := versionRe.ReplaceAllFunc(content, func(match []byte) []byte {
		count++
		groups := versionRe.FindSubmatch(match)
		return append(append(append([]byte(nil), groups[1]...), newVersion...), groups[3]...)
	})
	return updated, count
}

// PackageID returns the declared package identity, or "" when absent.
func PackageID(content []byte) string {
	m := packageIDRe.FindSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(string(m[1]))
}

// IsPackable reports whether the manifest is eligible to produce a
// distributable package: it must declare a package identity and must not
// explicitly opt out with <IsPackable>false</IsPackable>. An absent
// packable flag defaults to packable.
func IsPackable(content []byte) bool {
	if PackageID(content) == "" {
		return false
	}

	m := packableRe.FindSubmatch(content)
	if m != nil && strings.EqualFold(strings.TrimSpace(string(m[1])), "false") {
		return false
	}
	return true
}
