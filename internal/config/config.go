package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"remotepipe.dev/remotepipe/internal/definition"
	rperrors "remotepipe.dev/remotepipe/internal/errors"
	"remotepipe.dev/remotepipe/internal/scm"
)

// FileName is the configuration file looked up in the project directory
const FileName = ".remotepipe.yaml"

// Config is the persisted project configuration
type Config struct {
	DefinitionFile     string         `yaml:"definitionFile"`
	MatchBranches      bool           `yaml:"matchBranches"`
	FallbackBranch     string         `yaml:"fallbackBranch"`
	LocalMarker        string         `yaml:"localMarker,omitempty"`
	LookupInParameters bool           `yaml:"lookupInParameters,omitempty"`
	StrictMarker       bool           `yaml:"strictMarker,omitempty"`
	Source             *scm.GitSource `yaml:"source,omitempty"`
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() Config {
	return Config{
		DefinitionFile: definition.DefaultDefinitionFile,
		FallbackBranch: definition.DefaultFallbackBranch,
	}
}

// PathFor returns the configuration path inside dir
func PathFor(dir string) string {
	return filepath.Join(dir, FileName)
}

// LoadFrom reads the configuration at path. A missing file yields the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Exists reports whether a configuration file is present at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes the configuration to path
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DefinitionFile) == "" {
		c.DefinitionFile = definition.DefaultDefinitionFile
	}
	if strings.TrimSpace(c.FallbackBranch) == "" {
		c.FallbackBranch = definition.DefaultFallbackBranch
	}
}

// Validate checks that the configuration describes a usable definition source
func (c Config) Validate() error {
	if c.Source == nil {
		return rperrors.NewConfigError("source", "no definition source configured; run `remotepipe init`")
	}
	if len(c.Source.Remotes) == 0 {
		return rperrors.NewConfigError("source.remotes", "at least one remote is required")
	}
	for i, remote := range c.Source.Remotes {
		if strings.TrimSpace(remote.URL) == "" {
			return rperrors.NewConfigError(fmt.Sprintf("source.remotes[%d].url", i), "must not be empty")
		}
	}
	if len(c.Source.Branches) == 0 && !c.MatchBranches {
		return rperrors.NewConfigError("source.branches", "a branch is required unless matchBranches is set")
	}
	if strings.HasPrefix(c.DefinitionFile, "/") {
		return rperrors.NewConfigError("definitionFile", "must be relative to the repository root")
	}
	return nil
}

// ToProjectConfig converts the persisted configuration into the resolver's
// immutable project configuration
func (c Config) ToProjectConfig() *definition.ProjectConfig {
	opts := definition.Options{
		DefinitionFile:     c.DefinitionFile,
		MatchBranches:      c.MatchBranches,
		FallbackBranch:     c.FallbackBranch,
		LocalMarker:        c.LocalMarker,
		LookupInParameters: c.LookupInParameters,
		StrictMarker:       c.StrictMarker,
	}
	if c.Source != nil {
		opts.Source = c.Source.Clone()
	}
	return definition.NewProjectConfig(opts)
}
