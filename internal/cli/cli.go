package cli

import (
	"context"
	"fmt"

	"github.com/indaco/nupub/internal/commands/doctor"
	"github.com/indaco/nupub/internal/commands/publish"
	"github.com/indaco/nupub/internal/commands/show"
	"github.com/indaco/nupub/internal/config"
	"github.com/indaco/nupub/internal/console"
	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/printer"
	"github.com/indaco/nupub/internal/version"
	urfavecli "github.com/urfave/cli/v3"
)

var noColorFlag bool

// New builds and returns the root CLI command,
// configuring all subcommands and flags for the nupub cli.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "nupub",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Build, pack and publish NuGet packages with an optional version bump",
		UsageText:             "nupub <major|minor|patch|publish-only> <api-key>",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a .nupub.yaml or .nupub.toml config file",
			},
			&urfavecli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the push confirmation prompt",
			},
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			console.SetNoColor(noColorFlag)
			printer.SetNoColor(noColorFlag)
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			publish.Major(cfg),
			publish.Minor(cfg),
			publish.Patch(cfg),
			publish.PublishOnly(cfg),
			show.Run(cfg),
			doctor.Run(cfg),
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			if cmd.Args().Len() > 0 {
				return core.UsageErrorf("unknown command %q", cmd.Args().First())
			}
			return core.UsageErrorf("missing command (expected major, minor, patch or publish-only)")
		},
	}
}
