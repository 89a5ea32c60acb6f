// Package dotnet wraps the external dotnet tool invocations the release
// pipeline depends on: build, pack and nuget push. Every invocation runs in
// the repository root with the Release configuration, and success is judged
// by exit status alone.
package dotnet

import (
	"context"

	"github.com/indaco/nupub/internal/core"
)

// Client invokes the dotnet CLI through a core.Runner.
type Client struct {
	runner core.Runner
	source string
}

// NewClient creates a Client pushing to the given registry source.
func NewClient(runner core.Runner, source string) *Client {
	return &Client{runner: runner, source: source}
}

// Build compiles the solution in Release configuration.
func (c *Client) Build(ctx context.Context, root, solution string) error {
	return c.runner.Run(ctx, root, "dotnet", "build", solution, "-c", "Release")
}

// Pack packages a single project into outDir in Release configuration.
func (c *Client) Pack(ctx context.Context, root, project, outDir string) error {
	return c.runner.Run(ctx, root, "dotnet", "pack", project, "-c", "Release", "-o", outDir)
}

// Push uploads a package to the registry with duplicate-skip semantics.
// The api key is registered with the runner for redaction before use, so it
// never appears in an echoed command line.
func (c *Client) Push(ctx context.Context, root, pkg, apiKey string) error {
	c.runner.AddSecret(apiKey)
	return c.runner.Run(ctx, root, "dotnet", "nuget", "push", pkg,
		"--api-key", apiKey,
		"--source", c.source,
		"--skip-duplicate")
}
