// Package repo locates the repository root and its solution file.
//
// The root is the nearest ancestor directory containing at least one
// *.sln file, searched from a set of origin directories in order.
package repo

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/printer"
)

var (
	// ErrRootNotFound is returned when no ancestor of any origin
	// contains a solution file.
	ErrRootNotFound = errors.New("repository root not found (no directory containing a *.sln)")

	// ErrNoSolutionFile is returned when the resolved root holds no
	// solution file. It can only occur when the root was supplied directly.
	ErrNoSolutionFile = errors.New("no .sln file found in repository root")
)

// FindRoot walks each origin's ancestor chain upward until a directory
// containing at least one *.sln file is found. Origins are visited in
// order; within an origin, directories are visited from the origin up.
// Directories already visited through an earlier origin are skipped.
func FindRoot(ctx context.Context, fs core.FileSystem, origins ...string) (string, error) {
	visited := make(map[string]bool)

	for _, origin := range origins {
		dir, err := filepath.Abs(origin)
		if err != nil {
			continue
		}

		for {
			if visited[dir] {
				break
			}
			visited[dir] = true

			ok, err := hasSolutionFile(ctx, fs, dir)
			if err != nil {
				return "", err
			}
			if ok {
				return dir, nil
			}

			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	return "", ErrRootNotFound
}

// SolutionFile returns the solution file to operate on within root.
// With multiple candidates it warns and picks the lexicographically first;
// with none it fails with ErrNoSolutionFile.
func SolutionFile(ctx context.Context, fs core.FileSystem, root string) (string, error) {
	names, err := solutionFiles(ctx, fs, root)
	if err != nil {
		return "", err
	}

	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoSolutionFile, root)
	}
	if len(names) > 1 {
		printer.PrintWarning(fmt.Sprintf("Multiple .sln files found in %s. Using: %s", root, names[0]))
	}
	return filepath.Join(root, names[0]), nil
}

// hasSolutionFile reports whether dir directly contains a *.sln file.
func hasSolutionFile(ctx context.Context, fs core.FileSystem, dir string) (bool, error) {
	names, err := solutionFiles(ctx, fs, dir)
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// solutionFiles lists the *.sln file names in dir, sorted lexicographically.
// An unreadable directory yields no candidates rather than an error, since
// upward walks routinely cross directories the user cannot list.
func solutionFiles(ctx context.Context, fs core.FileSystem, dir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return nil, nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".sln") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
