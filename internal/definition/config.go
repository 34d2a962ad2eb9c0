// Package definition resolves which definition source and file to use for
// building a discovered branch, and owns the branch fallback protocol.
package definition

import (
	"remotepipe.dev/remotepipe/internal/criteria"
	"remotepipe.dev/remotepipe/internal/scm"
)

const (
	// DefaultDefinitionFile is used when no definition file path is configured
	DefaultDefinitionFile = "Jenkinsfile"
	// DefaultFallbackBranch is used when no fallback branch is configured
	DefaultFallbackBranch = "master"
)

// Options are the settable fields of a ProjectConfig. Zero values select the
// documented defaults.
type Options struct {
	DefinitionFile     string
	Source             scm.SourceDescriptor
	MatchBranches      bool
	FallbackBranch     string
	LocalMarker        string
	LookupInParameters bool
	StrictMarker       bool
}

// ProjectConfig is the immutable per-project definition configuration
type ProjectConfig struct {
	definitionFile     string
	source             scm.SourceDescriptor
	matchBranches      bool
	fallbackBranch     string
	localMarker        string
	lookupInParameters bool
	directoryPolicy    criteria.DirectoryPolicy
}

// NewProjectConfig normalizes opts into a ProjectConfig
func NewProjectConfig(opts Options) *ProjectConfig {
	cfg := &ProjectConfig{
		definitionFile:     opts.DefinitionFile,
		source:             opts.Source,
		matchBranches:      opts.MatchBranches,
		fallbackBranch:     opts.FallbackBranch,
		localMarker:        opts.LocalMarker,
		lookupInParameters: opts.LookupInParameters,
		directoryPolicy:    criteria.ParseDirectoryPolicy(opts.StrictMarker),
	}
	if cfg.definitionFile == "" {
		cfg.definitionFile = DefaultDefinitionFile
	}
	if cfg.fallbackBranch == "" {
		cfg.fallbackBranch = DefaultFallbackBranch
	}
	return cfg
}

// DefinitionFile returns the configured definition file path or placeholder
func (c *ProjectConfig) DefinitionFile() string { return c.definitionFile }

// Source returns the definition source, which may be nil
func (c *ProjectConfig) Source() scm.SourceDescriptor { return c.source }

// MatchBranches reports whether resolution pins the source to the built branch
func (c *ProjectConfig) MatchBranches() bool { return c.matchBranches }

// FallbackBranch returns the branch used when the built branch is missing
func (c *ProjectConfig) FallbackBranch() string { return c.fallbackBranch }

// LocalMarker returns the marker path probed during discovery
func (c *ProjectConfig) LocalMarker() string { return c.localMarker }

// LookupInParameters reports whether legacy parameter lookup is enabled
func (c *ProjectConfig) LookupInParameters() bool { return c.lookupInParameters }

// DirectoryPolicy returns how a directory marker is treated
func (c *ProjectConfig) DirectoryPolicy() criteria.DirectoryPolicy { return c.directoryPolicy }

// IsComplete reports whether the project has a definition source and file
func (c *ProjectConfig) IsComplete() bool {
	return c.source != nil && c.definitionFile != ""
}

// Criteria returns the discovery criteria for this project
func (c *ProjectConfig) Criteria() criteria.Criteria {
	return criteria.Criteria{
		Configured: c.IsComplete(),
		Marker:     c.localMarker,
		Policy:     c.directoryPolicy,
	}
}

// WithDefinitionFile returns a copy using path as the definition file
func (c *ProjectConfig) WithDefinitionFile(path string) *ProjectConfig {
	clone := *c
	if path == "" {
		path = DefaultDefinitionFile
	}
	clone.definitionFile = path
	return &clone
}
