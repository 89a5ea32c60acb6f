// Package doctor implements the "doctor" command: environment and
// repository health checks covering everything a release run needs.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/indaco/nupub/internal/config"
	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/git"
	"github.com/indaco/nupub/internal/manifest"
	"github.com/indaco/nupub/internal/printer"
	"github.com/indaco/nupub/internal/repo"
	"github.com/urfave/cli/v3"
)

// lookPathFn resolves a tool on PATH. It is a variable so tests can
// simulate missing tools.
var lookPathFn = exec.LookPath

// Run returns the "doctor" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "doctor",
		Usage:     "Check that the environment and repository are ready for a release",
		UsageText: "nupub doctor",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDoctorCmd(ctx, cfg)
		},
	}
}

func runDoctorCmd(ctx context.Context, cfg *config.Config) error {
	failures := 0
	check := func(name string, err error) {
		if err != nil {
			failures++
			printer.PrintError(fmt.Sprintf("%s: %v", name, err))
			return
		}
		printer.PrintSuccess(name)
	}

	for _, tool := range []string{"dotnet", "git"} {
		_, err := lookPathFn(tool)
		check(fmt.Sprintf("%s available on PATH", tool), err)
	}

	fs := core.NewOSFileSystem()
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	root, err := repo.FindRoot(ctx, fs, cwd)
	check("repository root resolvable", err)
	if err != nil {
		return fmt.Errorf("%d check(s) failed", failures)
	}

	_, err = repo.SolutionFile(ctx, fs, root)
	check("solution file present", err)

	manifests, err := manifest.Discover(ctx, fs, root, cfg.ProjectDirs)
	if err == nil && len(manifests) == 0 {
		err = fmt.Errorf("no project manifests in %v", cfg.ProjectDirs)
	}
	check("project manifests discoverable", err)

	if len(manifests) > 0 {
		_, err = manifest.NewEditor(fs).BaseVersion(ctx, manifests)
		check("manifest versions parseable", err)
	}

	gitOps := git.NewOSGitOperations(fs, core.NewOSRunner())
	var repoErr error
	if !gitOps.IsRepository(ctx, root) {
		repoErr = fmt.Errorf("%s is %w", filepath.Base(root), git.ErrNotAVersionControlledRepo)
	}
	check("git repository detected", repoErr)

	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	printer.PrintSuccess("All checks passed.")
	return nil
}
