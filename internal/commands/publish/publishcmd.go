// Package publish defines the four release subcommands: major, minor,
// patch and publish-only. Each runs the same pipeline in a different mode.
package publish

import (
	"context"
	"os"

	"github.com/indaco/nupub/internal/config"
	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/release"
	"github.com/urfave/cli/v3"
)

// apiKeyEnvVar names the environment fallback for the registry credential.
const apiKeyEnvVar = "NUPUB_API_KEY"

// Major returns the "major" command.
func Major(cfg *config.Config) *cli.Command {
	return modeCommand(cfg, release.ModeMajor,
		"Bump the major version, then build, pack, push and commit")
}

// Minor returns the "minor" command.
func Minor(cfg *config.Config) *cli.Command {
	return modeCommand(cfg, release.ModeMinor,
		"Bump the minor version, then build, pack, push and commit")
}

// Patch returns the "patch" command.
func Patch(cfg *config.Config) *cli.Command {
	return modeCommand(cfg, release.ModePatch,
		"Bump the patch version, then build, pack, push and commit")
}

// PublishOnly returns the "publish-only" command.
func PublishOnly(cfg *config.Config) *cli.Command {
	return modeCommand(cfg, release.ModePublishOnly,
		"Build, pack and push the current versions without bumping or committing")
}

func modeCommand(cfg *config.Config, mode release.Mode, usage string) *cli.Command {
	return &cli.Command{
		Name:      string(mode),
		Usage:     usage,
		UsageText: "nupub " + string(mode) + " <api-key>",
		ArgsUsage: "<api-key>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runModeCmd(ctx, cmd, cfg, mode)
		},
	}
}

// runModeCmd resolves the credential and hands off to the pipeline.
func runModeCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config, mode release.Mode) error {
	apiKey, err := resolveAPIKey(cmd)
	if err != nil {
		return err
	}

	p := release.New(cfg, release.WithAssumeYes(cmd.Bool("yes")))
	return p.Run(ctx, mode, apiKey)
}

// resolveAPIKey takes the credential from the single positional argument,
// falling back to NUPUB_API_KEY. Extra arguments are a usage error.
func resolveAPIKey(cmd *cli.Command) (string, error) {
	args := cmd.Args()
	switch args.Len() {
	case 0:
		if key := os.Getenv(apiKeyEnvVar); key != "" {
			return key, nil
		}
		return "", core.UsageErrorf("missing <api-key> argument (or set %s)", apiKeyEnvVar)
	case 1:
		key := args.First()
		if key == "" {
			return "", core.UsageErrorf("api key must not be empty")
		}
		return key, nil
	default:
		return "", core.UsageErrorf("expected a single <api-key> argument, got %d", args.Len())
	}
}
