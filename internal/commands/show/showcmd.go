// Package show implements the "show" command: an inspection of the
// repository as the release pipeline would see it, with no side effects.
package show

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/nupub/internal/config"
	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/manifest"
	"github.com/indaco/nupub/internal/printer"
	"github.com/indaco/nupub/internal/repo"
	"github.com/urfave/cli/v3"
)

// Run returns the "show" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the repository root, solution and project manifests",
		UsageText: "nupub show",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runShowCmd(ctx, cfg)
		},
	}
}

func runShowCmd(ctx context.Context, cfg *config.Config) error {
	fs := core.NewOSFileSystem()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	root, err := repo.FindRoot(ctx, fs, cwd)
	if err != nil {
		return err
	}
	solution, err := repo.SolutionFile(ctx, fs, root)
	if err != nil {
		return err
	}

	printer.PrintBold(fmt.Sprintf("Repo root: %s", root))
	printer.PrintBold(fmt.Sprintf("Solution:  %s", filepath.Base(solution)))
	printer.PrintInfo(fmt.Sprintf("Source:    %s", cfg.Source))

	manifests, err := manifest.Discover(ctx, fs, root, cfg.ProjectDirs)
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		printer.PrintWarning("No project manifests found.")
		return nil
	}

	printer.PrintInfo("Projects:")
	for _, path := range manifests {
		content, err := fs.ReadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		versions := manifest.ExtractVersions(content)
		version := "(no version)"
		if len(versions) > 0 {
			version = versions[0]
		}

		flag := ""
		if manifest.IsPackable(content) {
			flag = "  [packable]"
		}
		printer.PrintInfo(fmt.Sprintf("  %-50s %s%s", rel, version, flag))
	}
	return nil
}
