package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/semver"
)

var (
	// ErrNoManifests is returned when the target directories hold no
	// manifest files at all.
	ErrNoManifests = errors.New("no .csproj files found in the target directories")

	// ErrNoVersionFound is returned when no targeted manifest contains a
	// version declaration to use as the base version.
	ErrNoVersionFound = errors.New("no <Version>x.y.z</Version> found in any targeted manifest")

	// ErrMissingVersion is returned when a targeted manifest lacks a
	// version declaration during a bump.
	ErrMissingVersion = errors.New("manifest is missing a <Version> declaration")

	// ErrRewriteFailed is returned when a rewrite replaced zero
	// declarations in a manifest that was expected to hold at least one.
	ErrRewriteFailed = errors.New("failed to replace <Version> declaration")
)

// BumpResult reports the outcome of a version bump across manifests.
type BumpResult struct {
	Base    semver.SemVersion
	Target  semver.SemVersion
	Changed []string // paths whose content actually changed
}

// Editor rewrites version declarations across a set of manifests.
type Editor struct {
	fs core.FileSystem
}

// NewEditor creates an Editor over the given filesystem.
func NewEditor(fs core.FileSystem) *Editor {
	return &Editor{fs: fs}
}

// BaseVersion scans manifests in lexicographic path order and returns the
// first version declaration found in the first manifest that has one.
func (e *Editor) BaseVersion(ctx context.Context, paths []string) (semver.SemVersion, error) {
	ordered := append([]string(nil), paths...)
	sort.Strings(ordered)

	for _, path := range ordered {
		content, err := e.fs.ReadFile(ctx, path)
		if err != nil {
			return semver.SemVersion{}, fmt.Errorf("failed to read %q: %w", path, err)
		}
		if versions := ExtractVersions(content); len(versions) > 0 {
			return semver.ParseVersion(versions[0])
		}
	}

	return semver.SemVersion{}, ErrNoVersionFound
}

// Bump computes the target version from the base version and kind, then
// rewrites every manifest to the target.
//
// All manifests are validated before any is written: each must contain at
// least one version declaration, so a failure never leaves the set
// partially mutated. A manifest already at the target version is left
// untouched and excluded from the changed list.
func (e *Editor) Bump(ctx context.Context, paths []string, kind semver.BumpKind) (*BumpResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoManifests
	}

	base, err := e.BaseVersion(ctx, paths)
	if err != nil {
		return nil, err
	}
	target, err := base.Bump(kind)
	if err != nil {
		return nil, err
	}

	// Validation pass: read everything and compute rewrites up front.
	type pending struct {
		path    string
		updated []byte
	}
	var writes []pending

	for _, path := range paths {
		content, err := e.fs.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}

		if len(ExtractVersions(content)) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingVersion, path)
		}

		updated, count := ReplaceVersion(content, target.String())
		if count == 0 {
			return nil, fmt.Errorf("%w: %s", ErrRewriteFailed, path)
		}

		if !bytes.Equal(updated, content) {
			writes = append(writes, pending{path: path, updated: updated})
		}
	}

	// Write pass: only reached when every manifest validated.
	result := &BumpResult{Base: base, Target: target}
	for _, w := range writes {
		if err := e.fs.WriteFile(ctx, w.path, w.updated, core.PermSharedFile); err != nil {
			return nil, fmt.Errorf("failed to write %q: %w", w.path, err)
		}
		result.Changed = append(result.Changed, w.path)
	}

	return result, nil
}

// Packable filters paths down to the manifests eligible for packing.
func (e *Editor) Packable(ctx context.Context, paths []string) ([]string, error) {
	var packable []string
	for _, path := range paths {
		content, err := e.fs.ReadFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, err)
		}
		if IsPackable(content) {
			packable = append(packable, path)
		}
	}
	return packable, nil
}
