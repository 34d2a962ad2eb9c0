package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"remotepipe.dev/remotepipe/internal/config"
	"remotepipe.dev/remotepipe/internal/definition"
	"remotepipe.dev/remotepipe/internal/output"
)

// Context provides access to configuration and output for commands
type Context struct {
	context.Context
	Splog      *output.Splog
	Out        io.Writer
	ProjectDir string
	ConfigPath string
	Config     config.Config
}

// Options locate the project for NewContext
type Options struct {
	// Dir is the project directory; defaults to the working directory
	Dir string
	// ConfigPath overrides <Dir>/.remotepipe.yaml
	ConfigPath string
	Out        io.Writer
}

// NewContext resolves the project directory and loads its configuration
func NewContext(ctx context.Context, opts Options) (*Context, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.PathFor(dir)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	splog, err := output.NewSplogFromEnv(out)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		_ = splog.Close()
		return nil, err
	}

	return &Context{
		Context:    ctx,
		Splog:      splog,
		Out:        out,
		ProjectDir: dir,
		ConfigPath: configPath,
		Config:     cfg,
	}, nil
}

// ProjectConfig validates the loaded configuration and converts it for the resolver
func (c *Context) ProjectConfig() (*definition.ProjectConfig, error) {
	if err := c.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", c.ConfigPath, err)
	}
	return c.Config.ToProjectConfig(), nil
}

// BuildLog returns a sink writing diagnostic lines to the command output
func (c *Context) BuildLog() *output.BuildLog {
	return output.NewBuildLog(c.Out, c.Splog)
}

// Styles returns report styles for the command output
func (c *Context) Styles() *output.Styles {
	return output.NewStyles(c.Out)
}

// LockDir returns the directory holding per-project locks for key, under the
// user cache directory when it is writable and the temp directory otherwise
func (c *Context) LockDir(key string) string {
	base, err := os.UserCacheDir()
	if err != nil || os.MkdirAll(filepath.Join(base, "remotepipe"), 0750) != nil {
		base = os.TempDir()
	}
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, strings.TrimPrefix(key, "/"))
	return filepath.Join(base, "remotepipe", "locks", sanitized)
}

// Close releases the log file
func (c *Context) Close() error {
	return c.Splog.Close()
}
