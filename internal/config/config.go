// Package config holds the runtime configuration for nupub.
//
// Every path and endpoint the release pipeline touches is an explicit
// configuration value so tests can substitute doubles; nothing is a
// package-level constant elsewhere in the codebase.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/nupub/internal/semver"
	toml "github.com/pelletier/go-toml/v2"
)

// Default values applied when no configuration file overrides them.
const (
	// DefaultSource is the registry endpoint packages are pushed to.
	DefaultSource = "https://api.nuget.org/v3/index.json"

	// DefaultOutputDir is where packed artifacts land, relative to the
	// repository root. It is cleared at the start of every run.
	DefaultOutputDir = "artifacts/nuget/_publish"

	// DefaultCommitTemplate is the commit message recorded after a bump.
	// {BUMP} is replaced with the upper-cased bump kind.
	DefaultCommitTemplate = "[{BUMP}] Analyzer Upgrade"
)

// DefaultProjectDirs are the manifest directories scanned for *.csproj
// files, in order, relative to the repository root.
var DefaultProjectDirs = []string{
	"Source/Analyzers",
	"Source/CodeAnalysis",
	"Source/CodeFix",
}

// Candidate configuration files, tried in order from the working directory.
var configFiles = []string{".nupub.yaml", ".nupub.toml"}

// Config is the main configuration structure for nupub.
type Config struct {
	Source         string   `yaml:"source,omitempty" toml:"source,omitempty"`
	ProjectDirs    []string `yaml:"project-dirs,omitempty" toml:"project-dirs,omitempty"`
	OutputDir      string   `yaml:"output-dir,omitempty" toml:"output-dir,omitempty"`
	CommitTemplate string   `yaml:"commit-template,omitempty" toml:"commit-template,omitempty"`
	AuditLog       string   `yaml:"audit-log,omitempty" toml:"audit-log,omitempty"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Source:         DefaultSource,
		ProjectDirs:    append([]string(nil), DefaultProjectDirs...),
		OutputDir:      DefaultOutputDir,
		CommitTemplate: DefaultCommitTemplate,
	}
}

// LoadConfigFn loads the configuration. It is a function variable so tests
// can substitute a fixed configuration.
var LoadConfigFn = loadConfig

// loadConfig reads the first configuration file found, applies defaults to
// unset fields, and honors the NUPUB_SOURCE environment override.
func loadConfig() (*Config, error) {
	cfg := DefaultConfig()

	for _, name := range configFiles {
		data, err := os.ReadFile(name)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		if err := decodeInto(cfg, name, data); err != nil {
			return nil, err
		}
		break
	}

	if src := os.Getenv("NUPUB_SOURCE"); src != "" {
		cfg.Source = src
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads configuration from an explicit path, applying defaults to
// unset fields.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := decodeInto(cfg, path, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeInto unmarshals file data over cfg, choosing the codec by extension.
func decodeInto(cfg *Config, path string, data []byte) error {
	if strings.HasSuffix(path, ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %q: %w", path, err)
		}
		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("config: source must not be empty")
	}
	if len(c.ProjectDirs) == 0 {
		return fmt.Errorf("config: at least one project directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output-dir must not be empty")
	}
	if c.CommitTemplate == "" {
		return fmt.Errorf("config: commit-template must not be empty")
	}
	return nil
}

// CommitMessage renders the commit message for a bump kind.
func (c *Config) CommitMessage(kind semver.BumpKind) string {
	return strings.ReplaceAll(c.CommitTemplate, "{BUMP}", kind.Upper())
}
