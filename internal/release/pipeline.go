// Package release implements the publish pipeline: resolve the repository
// root, bump manifest versions, build the solution, pack the packable
// projects, push the produced packages and record the bump as a commit.
//
// The pipeline is strictly sequential and short-circuits on the first
// failure; no stage is retried and nothing is rolled back.
package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/nupub/internal/auditlog"
	"github.com/indaco/nupub/internal/config"
	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/dotnet"
	"github.com/indaco/nupub/internal/git"
	"github.com/indaco/nupub/internal/manifest"
	"github.com/indaco/nupub/internal/printer"
	"github.com/indaco/nupub/internal/repo"
	"github.com/indaco/nupub/internal/tui"
)

var (
	// ErrNoPackableProjects is returned when none of the discovered
	// manifests is eligible to produce a package.
	ErrNoPackableProjects = errors.New("no packable projects found (no manifest with <PackageId> in the target directories)")

	// ErrPushDeclined is returned when the user answers no at the
	// interactive push confirmation.
	ErrPushDeclined = errors.New("push declined")
)

// Pipeline orchestrates a release run. Construct it with New and inject
// doubles through Options in tests.
type Pipeline struct {
	cfg    *config.Config
	fs     core.FileSystem
	runner core.Runner
	git    git.CommitOperations
	audit  *auditlog.Logger

	origins     func() []string
	interactive func() bool
	confirm     func(title, description string) (bool, error)
	assumeYes   bool
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithFileSystem substitutes the filesystem implementation.
func WithFileSystem(fs core.FileSystem) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithRunner substitutes the external process runner.
func WithRunner(r core.Runner) Option {
	return func(p *Pipeline) { p.runner = r }
}

// WithGitOperations substitutes the git implementation.
func WithGitOperations(ops git.CommitOperations) Option {
	return func(p *Pipeline) { p.git = ops }
}

// WithOrigins fixes the root-search origin directories.
func WithOrigins(origins ...string) Option {
	return func(p *Pipeline) {
		p.origins = func() []string { return origins }
	}
}

// WithAssumeYes skips the interactive push confirmation.
func WithAssumeYes(yes bool) Option {
	return func(p *Pipeline) { p.assumeYes = yes }
}

// New creates a Pipeline with production defaults.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	fs := core.NewOSFileSystem()
	runner := core.NewOSRunner()

	p := &Pipeline{
		cfg:         cfg,
		fs:          fs,
		runner:      runner,
		origins:     defaultOrigins,
		interactive: tui.IsInteractive,
		confirm: func(title, description string) (bool, error) {
			return tui.ConfirmFn(title, description)
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.git == nil {
		p.git = git.NewOSGitOperations(p.fs, p.runner)
	}
	p.audit = auditlog.NewLogger(p.fs, cfg.AuditLog)
	return p
}

// defaultOrigins returns the root-search origins: the working directory
// and the directory holding the nupub executable.
func defaultOrigins() []string {
	var origins []string
	if cwd, err := os.Getwd(); err == nil {
		origins = append(origins, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		origins = append(origins, filepath.Dir(exe))
	}
	return origins
}

// Run executes the pipeline for the given mode. The api key authorizes the
// registry push; it is registered for redaction before any external tool
// runs and never appears in output.
func (p *Pipeline) Run(ctx context.Context, mode Mode, apiKey string) error {
	p.runner.AddSecret(apiKey)

	root, err := repo.FindRoot(ctx, p.fs, p.origins()...)
	if err != nil {
		return err
	}
	solution, err := repo.SolutionFile(ctx, p.fs, root)
	if err != nil {
		return err
	}

	printer.PrintInfo(fmt.Sprintf("Repo root: %s", root))
	printer.PrintInfo(fmt.Sprintf("Solution:  %s", filepath.Base(solution)))
	printer.PrintInfo(fmt.Sprintf("Mode:      %s", mode))

	manifests, err := manifest.Discover(ctx, p.fs, root, p.cfg.ProjectDirs)
	if err != nil {
		return err
	}

	// 1) Version bump (bump modes only).
	var changed []string
	var previous, current string
	if mode.IsBump() {
		kind, err := mode.BumpKind()
		if err != nil {
			return err
		}

		result, err := manifest.NewEditor(p.fs).Bump(ctx, manifests, kind)
		if err != nil {
			return err
		}
		changed = result.Changed
		previous = result.Base.String()
		current = result.Target.String()

		printer.PrintSuccess(fmt.Sprintf("Version bump: %s -> %s", previous, current))
		for _, path := range changed {
			printer.PrintFaint(fmt.Sprintf("Updated: %s", relTo(root, path)))
		}
	} else {
		printer.PrintFaint("publish-only: leaving versions unchanged; no git operations will be performed.")
	}

	client := dotnet.NewClient(p.runner, p.cfg.Source)

	// 2) Build the solution.
	if err := client.Build(ctx, root, solution); err != nil {
		return err
	}

	// 3) Pack all packable projects into a clean output directory.
	outDir := filepath.Join(root, p.cfg.OutputDir)
	if err := dotnet.CleanOutputDir(ctx, p.fs, outDir); err != nil {
		return err
	}

	packable, err := manifest.NewEditor(p.fs).Packable(ctx, manifests)
	if err != nil {
		return err
	}
	if len(packable) == 0 {
		return ErrNoPackableProjects
	}

	printer.PrintInfo("Packable projects:")
	for _, path := range packable {
		printer.PrintInfo(fmt.Sprintf("  - %s", relTo(root, path)))
	}

	for _, project := range packable {
		if err := client.Pack(ctx, root, project, outDir); err != nil {
			return err
		}
	}

	packages, err := dotnet.CollectPackages(ctx, p.fs, outDir)
	if err != nil {
		return err
	}

	// 4) Push packages, primaries before symbol packages.
	primaries, symbols := dotnet.PartitionPackages(packages)

	if err := p.confirmPush(len(primaries) + len(symbols)); err != nil {
		return err
	}

	for _, pkg := range append(primaries, symbols...) {
		printer.PrintInfo(fmt.Sprintf("Pushing: %s", filepath.Base(pkg)))
		if err := client.Push(ctx, root, pkg, apiKey); err != nil {
			return err
		}
	}

	// 5) Record the bump as a commit (bump modes only, after the push).
	if mode.IsBump() {
		if err := p.commitBump(ctx, root, mode, changed); err != nil {
			return err
		}
	}

	p.audit.Record(ctx, auditlog.Entry{
		Mode:            string(mode),
		PreviousVersion: previous,
		NewVersion:      current,
		PushedPackages:  len(primaries) + len(symbols),
	})

	printer.PrintSuccess("Done.")
	return nil
}

// confirmPush asks for confirmation before pushing, unless running
// non-interactively or --yes was given.
func (p *Pipeline) confirmPush(count int) error {
	if p.assumeYes || !p.interactive() {
		return nil
	}

	ok, err := p.confirm(
		fmt.Sprintf("Push %d package(s) to %s?", count, p.cfg.Source),
		"Published packages cannot be unpublished.",
	)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPushDeclined
	}
	return nil
}

// commitBump stages exactly the changed manifests and commits them.
// An empty change list is a silent no-op.
func (p *Pipeline) commitBump(ctx context.Context, root string, mode Mode, changed []string) error {
	if !p.git.IsRepository(ctx, root) {
		return fmt.Errorf("%w: refusing to commit in %s", git.ErrNotAVersionControlledRepo, root)
	}

	if len(changed) == 0 {
		printer.PrintFaint("No manifest files changed; skipping git commit.")
		return nil
	}

	relPaths := make([]string, len(changed))
	for i, path := range changed {
		relPaths[i] = relTo(root, path)
	}

	if err := p.git.StageFiles(ctx, root, relPaths...); err != nil {
		return err
	}

	kind, err := mode.BumpKind()
	if err != nil {
		return err
	}
	message := p.cfg.CommitMessage(kind)
	if err := p.git.Commit(ctx, root, message); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Committed version bump: %s", message))
	return nil
}

// relTo renders path relative to root for display and staging; it falls
// back to the input when no relative form exists.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
