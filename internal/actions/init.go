package actions

import (
	"fmt"

	"remotepipe.dev/remotepipe/internal/config"
	"remotepipe.dev/remotepipe/internal/runtime"
	"remotepipe.dev/remotepipe/internal/scm"
)

// InitOptions contains options for the init command
type InitOptions struct {
	URL            string
	Branch         string
	DefinitionFile string
	CredentialsID  string
	MatchBranches  bool
	FallbackBranch string
	LocalMarker    string
	StrictMarker   bool
	Force          bool
}

// InitAction writes a new project configuration
func InitAction(ctx *runtime.Context, opts InitOptions) error {
	if !opts.Force && config.Exists(ctx.ConfigPath) {
		return fmt.Errorf("%s already exists; pass --force to overwrite it", ctx.ConfigPath)
	}

	cfg := config.DefaultConfig()
	cfg.Source = scm.NewGitSource(opts.URL, opts.Branch)
	cfg.Source.Remotes[0].CredentialsID = opts.CredentialsID
	cfg.MatchBranches = opts.MatchBranches
	cfg.LocalMarker = opts.LocalMarker
	cfg.StrictMarker = opts.StrictMarker
	if opts.DefinitionFile != "" {
		cfg.DefinitionFile = opts.DefinitionFile
	}
	if opts.FallbackBranch != "" {
		cfg.FallbackBranch = opts.FallbackBranch
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(ctx.ConfigPath); err != nil {
		return err
	}

	ctx.Config = cfg
	ctx.Splog.Info("Wrote %s", ctx.ConfigPath)
	ctx.Splog.Tip("Run `remotepipe checkout` to fetch the definition for the current branch")
	return nil
}
