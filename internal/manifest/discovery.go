package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/printer"
)

// Discover collects the *.csproj files directly inside each of dirs
// (relative to root), non-recursively. Missing directories produce a
// warning and are skipped. Results are de-duplicated by resolved path and
// keep discovery order: directory order first, lexicographic file name
// order within a directory.
func Discover(ctx context.Context, fs core.FileSystem, root string, dirs []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, rel := range dirs {
		dir := filepath.Join(root, rel)
		if _, err := fs.Stat(ctx, dir); err != nil {
			printer.PrintWarning(fmt.Sprintf("Directory missing: %s", dir))
			continue
		}

		entries, err := fs.ReadDir(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %q: %w", dir, err)
		}

		var names []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".csproj") {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			resolved := path
			if abs, err := filepath.Abs(path); err == nil {
				resolved = abs
			}
			if seen[resolved] {
				continue
			}
			seen[resolved] = true
			files = append(files, path)
		}
	}

	return files, nil
}
