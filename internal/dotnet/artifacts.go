package dotnet

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/indaco/nupub/internal/core"
)

// ErrNoPackagesProduced is returned when packing completed but the output
// directory holds no recognized package artifacts.
var ErrNoPackagesProduced = errors.New("no packages produced in output directory")

// Recognized artifact extensions.
const (
	pkgExt     = ".nupkg"
	symbolsExt = ".snupkg"

	// symbolsSuffix marks a primary-extension file that is actually a
	// legacy symbols variant and must not be pushed as a primary package.
	symbolsSuffix = ".symbols.nupkg"
)

// CleanOutputDir removes dir and recreates it empty, guaranteeing no stale
// artifacts from a previous run survive into a push.
func CleanOutputDir(ctx context.Context, fs core.FileSystem, dir string) error {
	if err := fs.RemoveAll(ctx, dir); err != nil {
		return fmt.Errorf("failed to clear output directory %q: %w", dir, err)
	}
	if err := fs.MkdirAll(ctx, dir, core.PermSharedDir); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return nil
}

// CollectPackages lists the package artifacts in dir, sorted by name.
// It fails with ErrNoPackagesProduced when none are found.
func CollectPackages(ctx context.Context, fs core.FileSystem, dir string) ([]string, error) {
	entries, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list output directory %q: %w", dir, err)
	}

	var packages []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, pkgExt) || strings.HasSuffix(name, symbolsExt) {
			packages = append(packages, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(packages)

	if len(packages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackagesProduced, dir)
	}
	return packages, nil
}

// PartitionPackages splits artifacts into primary packages and companion
// symbol packages, each sorted. A *.symbols.nupkg file is a symbols variant
// carrying the primary extension; it is excluded from both groups to avoid
// pushing it twice.
func PartitionPackages(packages []string) (primaries, symbols []string) {
	for _, pkg := range packages {
		name := strings.ToLower(filepath.Base(pkg))
		switch {
		case strings.HasSuffix(name, symbolsSuffix):
			// skip
		case strings.HasSuffix(name, symbolsExt):
			symbols = append(symbols, pkg)
		case strings.HasSuffix(name, pkgExt):
			primaries = append(primaries, pkg)
		}
	}
	sort.Strings(primaries)
	sort.Strings(symbols)
	return primaries, symbols
}
