package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/indaco/nupub/internal/cli"
	"github.com/indaco/nupub/internal/config"
	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(exitCode(err))
	}
}

// runCLI loads the configuration and runs the root command with the
// given arguments.
func runCLI(args []string) error {
	cfg, err := loadConfigFor(args)
	if err != nil {
		return err
	}
	return cli.New(cfg).Run(context.Background(), args)
}

// loadConfigFor honors an explicit --config argument; otherwise the
// config is discovered in the working directory.
func loadConfigFor(args []string) (*config.Config, error) {
	if path := configPathArg(args); path != "" {
		return config.LoadFile(path)
	}
	return config.LoadConfigFn()
}

// configPathArg extracts the --config value from raw arguments. The flag
// must be read before flag parsing because the loaded config feeds the
// command constructors.
func configPathArg(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

// exitCode maps an error to the process exit code: 2 for usage errors,
// the child's code for external tool failures, 1 otherwise.
func exitCode(err error) int {
	var exitErr *core.ExitError
	switch {
	case errors.Is(err, core.ErrUsage):
		return 2
	case errors.As(err, &exitErr):
		return exitErr.Code
	default:
		return 1
	}
}
