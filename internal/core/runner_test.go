package core

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

// stubRunner returns an OSRunner whose invocations run `sh -c script`
// instead of the requested tool, capturing the echoed command line.
func stubRunner(script string) (*OSRunner, *bytes.Buffer) {
	var echo bytes.Buffer
	r := NewOSRunner()
	r.Echo = &echo
	r.execCommand = func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	return r, &echo
}

func TestRunEchoesRedactedCommandLine(t *testing.T) {
	r, echo := stubRunner("exit 0")
	r.AddSecret("oy2-topsecret")

	err := r.Run(context.Background(), t.TempDir(),
		"dotnet", "nuget", "push", "pkg.nupkg", "--api-key", "oy2-topsecret")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	line := echo.String()
	if strings.Contains(line, "oy2-topsecret") {
		t.Errorf("secret leaked into echoed line: %s", line)
	}
	if !strings.Contains(line, "--api-key ****") {
		t.Errorf("echoed line not redacted: %s", line)
	}
}

func TestRunPreservesChildExitCode(t *testing.T) {
	r, _ := stubRunner("exit 42")

	err := r.Run(context.Background(), t.TempDir(), "dotnet", "build")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run error = %v, want *ExitError", err)
	}
	if exitErr.Code != 42 {
		t.Errorf("Code = %d, want 42", exitErr.Code)
	}
	if exitErr.Tool != "dotnet" {
		t.Errorf("Tool = %q, want dotnet", exitErr.Tool)
	}
}

func TestRunEmptyCommand(t *testing.T) {
	r, _ := stubRunner("exit 0")
	if err := r.Run(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for empty argv")
	}
}

func TestAddSecretIgnoresEmptyValue(t *testing.T) {
	r, echo := stubRunner("exit 0")
	r.AddSecret("")

	if err := r.Run(context.Background(), t.TempDir(), "git", "status"); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// An empty secret must not redact anything.
	if strings.Contains(echo.String(), redactedPlaceholder) {
		t.Errorf("empty secret caused redaction: %s", echo.String())
	}
}

func TestUsageErrorf(t *testing.T) {
	err := UsageErrorf("missing %s", "argument")
	if !errors.Is(err, ErrUsage) {
		t.Errorf("UsageErrorf result does not wrap ErrUsage: %v", err)
	}
	if !strings.Contains(err.Error(), "missing argument") {
		t.Errorf("unexpected message: %v", err)
	}
}
