// Package git records version bumps as version-control commits.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/indaco/nupub/internal/core"
)

// ErrNotAVersionControlledRepo is returned when the repository root has no
// git metadata directory; nupub refuses to commit in that case.
var ErrNotAVersionControlledRepo = errors.New("not a git repository (no .git directory found)")

// CommitOperations defines the git interactions the pipeline needs.
type CommitOperations interface {
	// IsRepository reports whether root is under git version control.
	IsRepository(ctx context.Context, root string) bool

	// StageFiles stages exactly the given paths, relative to root.
	StageFiles(ctx context.Context, root string, paths ...string) error

	// Commit creates a commit with the given message.
	Commit(ctx context.Context, root, message string) error
}

// OSGitOperations implements CommitOperations by invoking the git tool.
type OSGitOperations struct {
	fs     core.FileSystem
	runner core.Runner
}

// NewOSGitOperations creates git operations over the given runner.
func NewOSGitOperations(fs core.FileSystem, runner core.Runner) *OSGitOperations {
	return &OSGitOperations{fs: fs, runner: runner}
}

// Verify OSGitOperations implements CommitOperations.
var _ CommitOperations = (*OSGitOperations)(nil)

func (g *OSGitOperations) IsRepository(ctx context.Context, root string) bool {
	info, err := g.fs.Stat(ctx, filepath.Join(root, ".git"))
	return err == nil && info.IsDir()
}

func (g *OSGitOperations) StageFiles(ctx context.Context, root string, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	argv := append([]string{"git", "add", "--"}, paths...)
	if err := g.runner.Run(ctx, root, argv...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	return nil
}

func (g *OSGitOperations) Commit(ctx context.Context, root, message string) error {
	if err := g.runner.Run(ctx, root, "git", "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
