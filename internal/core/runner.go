package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/indaco/nupub/internal/printer"
)

// redactedPlaceholder replaces registered secret values in echoed commands.
const redactedPlaceholder = "****"

// ExitError reports a non-zero exit status from an external tool.
// The child's exit code is preserved so callers can propagate it.
type ExitError struct {
	Tool string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
}

// Runner executes external tools. Implementations must never include
// registered secret values in any echoed or logged command representation.
type Runner interface {
	// AddSecret registers a value to be masked in echoed command lines.
	AddSecret(value string)

	// Run executes argv in dir and blocks until it completes.
	// A non-zero exit status is returned as an *ExitError.
	Run(ctx context.Context, dir string, argv ...string) error
}

// OSRunner implements Runner using os/exec. Each command line is echoed
// to Echo before execution, with registered secrets redacted.
type OSRunner struct {
	// Echo receives the redacted command line before each invocation.
	// Defaults to os.Stdout.
	Echo io.Writer

	execCommand func(ctx context.Context, name string, arg ...string) *exec.Cmd
	secrets     []string
}

// NewOSRunner creates a new OSRunner echoing to stdout.
func NewOSRunner() *OSRunner {
	return &OSRunner{
		Echo:        os.Stdout,
		execCommand: exec.CommandContext,
	}
}

// Verify OSRunner implements Runner.
var _ Runner = (*OSRunner)(nil)

func (r *OSRunner) AddSecret(value string) {
	if value == "" {
		return
	}
	r.secrets = append(r.secrets, value)
}

func (r *OSRunner) Run(ctx context.Context, dir string, argv ...string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	fmt.Fprintln(r.Echo, printer.Faint("> "+r.redactedLine(argv)))

	cmd := r.execCommand(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Tool: argv[0], Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return nil
}

// redactedLine joins argv into a printable command line, replacing any
// argument that exactly matches a registered secret.
func (r *OSRunner) redactedLine(argv []string) string {
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = arg
		for _, secret := range r.secrets {
			if arg == secret {
				parts[i] = redactedPlaceholder
				break
			}
		}
	}
	return strings.Join(parts, " ")
}
