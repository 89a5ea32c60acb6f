package release

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/indaco/nupub/internal/config"
	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/dotnet"
	"github.com/indaco/nupub/internal/git"
	"github.com/indaco/nupub/internal/manifest"
	"github.com/indaco/nupub/internal/testutils"
)

const testAPIKey = "oy2-super-secret-key"

// newRepoFixture lays out a minimal multi-project repository:
// a solution file, three manifests (two packable) and a .git directory.
func newRepoFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("Acme.sln", "")
	write("Source/Analyzers/Acme.Analyzers.csproj",
		"<Project>\n  <PackageId>Acme.Analyzers</PackageId>\n  <Version>1.2.3</Version>\n</Project>\n")
	write("Source/CodeAnalysis/Acme.CodeAnalysis.csproj",
		"<Project>\n  <PackageId>Acme.CodeAnalysis</PackageId>\n  <Version>1.2.3</Version>\n</Project>\n")
	write("Source/CodeFix/Acme.CodeFix.csproj",
		"<Project>\n  <Version>1.2.3</Version>\n  <IsPackable>false</IsPackable>\n</Project>\n")

	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	return root
}

// packSimulatingRunner returns a MockRunner whose pack invocations drop
// artifacts into the output directory, like the real tool would.
func packSimulatingRunner(t *testing.T, version string) *core.MockRunner {
	t.Helper()
	runner := &core.MockRunner{}
	runner.OnRun = func(dir string, argv ...string) error {
		if len(argv) > 1 && argv[0] == "dotnet" && argv[1] == "pack" {
			outDir := argv[len(argv)-1]
			id := strings.TrimSuffix(filepath.Base(argv[2]), ".csproj")
			for _, ext := range []string{".nupkg", ".snupkg"} {
				name := fmt.Sprintf("%s.%s%s", id, version, ext)
				if err := os.WriteFile(filepath.Join(outDir, name), []byte("pkg"), 0o644); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return runner
}

func newTestPipeline(t *testing.T, root string, runner *core.MockRunner, gitOps git.CommitOperations, opts ...Option) *Pipeline {
	t.Helper()
	cfg := config.DefaultConfig()
	all := append([]Option{
		WithRunner(runner),
		WithGitOperations(gitOps),
		WithOrigins(root),
		WithAssumeYes(true),
	}, opts...)
	return New(cfg, all...)
}

func runQuietly(t *testing.T, p *Pipeline, mode Mode) (string, error) {
	t.Helper()
	var err error
	output, capErr := testutils.CaptureStdout(func() {
		err = p.Run(context.Background(), mode, testAPIKey)
	})
	if capErr != nil {
		t.Fatal(capErr)
	}
	return output, err
}

func TestRunMinorBump(t *testing.T) {
	root := newRepoFixture(t)
	runner := packSimulatingRunner(t, "1.3.0")
	gitOps := &git.MockCommitOperations{}
	p := newTestPipeline(t, root, runner, gitOps)

	if _, err := runQuietly(t, p, ModeMinor); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// All three manifests now hold the bumped version.
	for _, rel := range []string{
		"Source/Analyzers/Acme.Analyzers.csproj",
		"Source/CodeAnalysis/Acme.CodeAnalysis.csproj",
		"Source/CodeFix/Acme.CodeFix.csproj",
	} {
		content, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "<Version>1.3.0</Version>") {
			t.Errorf("%s not bumped: %s", rel, content)
		}
	}

	// Build runs before pack, pack before push; the non-packable
	// manifest is never packed.
	lines := runner.CallLines()
	var packCount, pushCount int
	buildIdx, firstPushIdx := -1, -1
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "dotnet build"):
			buildIdx = i
		case strings.HasPrefix(line, "dotnet pack"):
			packCount++
			if strings.Contains(line, "CodeFix") {
				t.Errorf("non-packable project was packed: %s", line)
			}
		case strings.HasPrefix(line, "dotnet nuget push"):
			pushCount++
			if firstPushIdx == -1 {
				firstPushIdx = i
			}
		}
	}
	if buildIdx != 0 {
		t.Errorf("build was not the first external invocation: %v", lines)
	}
	if packCount != 2 {
		t.Errorf("pack invocations = %d, want 2", packCount)
	}
	if pushCount != 4 { // two .nupkg + two .snupkg
		t.Errorf("push invocations = %d, want 4", pushCount)
	}
	if firstPushIdx < buildIdx+packCount {
		t.Errorf("push happened before packing finished: %v", lines)
	}

	// Primary packages are pushed before symbol packages.
	var sawSymbols bool
	for _, line := range lines {
		if !strings.HasPrefix(line, "dotnet nuget push") {
			continue
		}
		if strings.Contains(line, ".snupkg") {
			sawSymbols = true
		} else if sawSymbols {
			t.Errorf("primary package pushed after a symbols package: %v", lines)
		}
	}

	// Exactly the changed manifests are staged, then committed with the
	// templated message.
	if len(gitOps.Staged) != 1 {
		t.Fatalf("StageFiles calls = %d, want 1", len(gitOps.Staged))
	}
	if len(gitOps.Staged[0]) != 3 {
		t.Errorf("staged files = %v, want the three changed manifests", gitOps.Staged[0])
	}
	for _, path := range gitOps.Staged[0] {
		if filepath.IsAbs(path) {
			t.Errorf("staged path %q is absolute, want repo-relative", path)
		}
	}
	if len(gitOps.Messages) != 1 || gitOps.Messages[0] != "[MINOR] Analyzer Upgrade" {
		t.Errorf("commit messages = %v, want [MINOR] Analyzer Upgrade", gitOps.Messages)
	}
}

func TestRunPublishOnlyLeavesManifestsAndGitAlone(t *testing.T) {
	root := newRepoFixture(t)
	before, err := os.ReadFile(filepath.Join(root, "Source/Analyzers/Acme.Analyzers.csproj"))
	if err != nil {
		t.Fatal(err)
	}

	runner := packSimulatingRunner(t, "1.2.3")
	gitOps := &git.MockCommitOperations{}
	p := newTestPipeline(t, root, runner, gitOps)

	if _, err := runQuietly(t, p, ModePublishOnly); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	after, err := os.ReadFile(filepath.Join(root, "Source/Analyzers/Acme.Analyzers.csproj"))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("publish-only modified a manifest")
	}
	if len(gitOps.Staged) != 0 || len(gitOps.Messages) != 0 {
		t.Errorf("publish-only touched git: staged=%v messages=%v", gitOps.Staged, gitOps.Messages)
	}
}

func TestRunFailsFastBeforeExternalTools(t *testing.T) {
	root := newRepoFixture(t)
	// Break one manifest: no version declaration at all.
	broken := filepath.Join(root, "Source/CodeFix/Acme.CodeFix.csproj")
	if err := os.WriteFile(broken, []byte("<Project></Project>\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &core.MockRunner{}
	p := newTestPipeline(t, root, runner, &git.MockCommitOperations{})

	_, err := runQuietly(t, p, ModePatch)
	if !errors.Is(err, manifest.ErrMissingVersion) {
		t.Fatalf("Run error = %v, want ErrMissingVersion", err)
	}
	if len(runner.Calls) != 0 {
		t.Errorf("external tools were invoked despite early failure: %v", runner.CallLines())
	}
}

func TestRunNoPackableProjects(t *testing.T) {
	root := newRepoFixture(t)
	// Strip the package identities so nothing is packable.
	for _, rel := range []string{
		"Source/Analyzers/Acme.Analyzers.csproj",
		"Source/CodeAnalysis/Acme.CodeAnalysis.csproj",
	} {
		path := filepath.Join(root, rel)
		if err := os.WriteFile(path, []byte("<Project>\n  <Version>1.2.3</Version>\n</Project>\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	runner := &core.MockRunner{}
	p := newTestPipeline(t, root, runner, &git.MockCommitOperations{})

	_, err := runQuietly(t, p, ModePublishOnly)
	if !errors.Is(err, ErrNoPackableProjects) {
		t.Fatalf("Run error = %v, want ErrNoPackableProjects", err)
	}
}

func TestRunNoPackagesProduced(t *testing.T) {
	root := newRepoFixture(t)
	// A runner that packs nothing.
	runner := &core.MockRunner{}
	p := newTestPipeline(t, root, runner, &git.MockCommitOperations{})

	_, err := runQuietly(t, p, ModePublishOnly)
	if !errors.Is(err, dotnet.ErrNoPackagesProduced) {
		t.Fatalf("Run error = %v, want ErrNoPackagesProduced", err)
	}
}

func TestRunClearsStaleArtifacts(t *testing.T) {
	root := newRepoFixture(t)
	outDir := filepath.Join(root, config.DefaultOutputDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(outDir, "Stale.0.1.0.nupkg")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := packSimulatingRunner(t, "1.2.3")
	p := newTestPipeline(t, root, runner, &git.MockCommitOperations{})

	if _, err := runQuietly(t, p, ModePublishOnly); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale artifact survived the run")
	}
	// The stale package was never pushed.
	for _, line := range runner.CallLines() {
		if strings.Contains(line, "Stale.0.1.0.nupkg") {
			t.Errorf("stale artifact was pushed: %s", line)
		}
	}
}

func TestRunRefusesToCommitOutsideRepo(t *testing.T) {
	root := newRepoFixture(t)
	if err := os.RemoveAll(filepath.Join(root, ".git")); err != nil {
		t.Fatal(err)
	}

	runner := packSimulatingRunner(t, "1.2.4")
	gitOps := &git.MockCommitOperations{
		IsRepositoryFn: func(string) bool { return false },
	}
	p := newTestPipeline(t, root, runner, gitOps)

	_, err := runQuietly(t, p, ModePatch)
	if !errors.Is(err, git.ErrNotAVersionControlledRepo) {
		t.Fatalf("Run error = %v, want ErrNotAVersionControlledRepo", err)
	}
}

func TestRunCredentialNeverPrinted(t *testing.T) {
	root := newRepoFixture(t)
	runner := packSimulatingRunner(t, "1.2.3")
	p := newTestPipeline(t, root, runner, &git.MockCommitOperations{})

	output, err := runQuietly(t, p, ModePublishOnly)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if strings.Contains(output, testAPIKey) {
		t.Error("credential appeared in console output")
	}
	// The key is functionally passed to the push invocations...
	var pushed bool
	for _, call := range runner.Calls {
		if call.Line() == "" {
			continue
		}
		if strings.Contains(call.Line(), testAPIKey) {
			pushed = true
		}
	}
	if !pushed {
		t.Error("push invocations did not carry the api key")
	}
	// ...and registered for redaction before they ran.
	secrets := runner.Secrets()
	if len(secrets) == 0 || secrets[0] != testAPIKey {
		t.Errorf("Secrets = %v, want the api key registered first", secrets)
	}
}

func TestRunPushDeclined(t *testing.T) {
	root := newRepoFixture(t)
	runner := packSimulatingRunner(t, "1.2.3")
	p := newTestPipeline(t, root, runner, &git.MockCommitOperations{}, WithAssumeYes(false))
	p.interactive = func() bool { return true }
	p.confirm = func(title, description string) (bool, error) { return false, nil }

	_, err := runQuietly(t, p, ModePublishOnly)
	if !errors.Is(err, ErrPushDeclined) {
		t.Fatalf("Run error = %v, want ErrPushDeclined", err)
	}
	for _, line := range runner.CallLines() {
		if strings.HasPrefix(line, "dotnet nuget push") {
			t.Errorf("package pushed despite declined confirmation: %s", line)
		}
	}
}

func TestRunWritesAuditLog(t *testing.T) {
	root := newRepoFixture(t)
	journal := filepath.Join(root, "releases.jsonl")

	cfg := config.DefaultConfig()
	cfg.AuditLog = journal
	runner := packSimulatingRunner(t, "1.3.0")
	p := New(cfg,
		WithRunner(runner),
		WithGitOperations(&git.MockCommitOperations{}),
		WithOrigins(root),
		WithAssumeYes(true),
	)

	if _, err := runQuietly(t, p, ModeMinor); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data, err := os.ReadFile(journal)
	if err != nil {
		t.Fatalf("audit log not written: %v", err)
	}
	for _, want := range []string{`"mode":"minor"`, `"previous_version":"1.2.3"`, `"new_version":"1.3.0"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("audit log entry %q missing %q", data, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"major", ModeMajor, false},
		{"minor", ModeMinor, false},
		{"patch", ModePatch, false},
		{"publish-only", ModePublishOnly, false},
		{"PUBLISH-ONLY", ModePublishOnly, false},
		{"release", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModeBumpKind(t *testing.T) {
	if _, err := ModePublishOnly.BumpKind(); err == nil {
		t.Error("BumpKind on publish-only should error")
	}
	kind, err := ModeMajor.BumpKind()
	if err != nil || string(kind) != "major" {
		t.Errorf("BumpKind(major) = %q, %v", kind, err)
	}
}
