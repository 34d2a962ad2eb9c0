package actions

import (
	"fmt"

	"remotepipe.dev/remotepipe/internal/binder"
	"remotepipe.dev/remotepipe/internal/definition"
	"remotepipe.dev/remotepipe/internal/git"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// CheckoutOptions contains options for the checkout and env commands
type CheckoutOptions struct {
	// Branch defaults to the checked-out branch of the project repository
	Branch string
	// Parameters are name=value build parameters for legacy file lookup
	Parameters []string
	// Print writes the definition content after the summary
	Print bool
	// Checkouter overrides the go-git checkout
	Checkouter binder.Checkouter
}

// CheckoutAction binds a branch to its pipeline definition and prints the outcome
func CheckoutAction(ctx *runtime.Context, opts CheckoutOptions) (*binder.Result, error) {
	result, err := bind(ctx, opts)
	if err != nil {
		return nil, err
	}

	printTarget(ctx, result.Target)
	styles := ctx.Styles()
	if result.Revision != "" {
		_, _ = fmt.Fprintln(ctx.Out, styles.Field("Revision", result.Revision))
	}
	if result.FellBack {
		ctx.Splog.Warn("Using the fallback branch %s", result.Target.BranchUsed)
	}
	if opts.Print {
		ctx.Splog.Newline()
		_, _ = ctx.Out.Write(result.Definition)
	}
	return result, nil
}

// EnvAction binds a branch and prints the environment contributed to its build
func EnvAction(ctx *runtime.Context, opts CheckoutOptions) (map[string]string, error) {
	result, err := bind(ctx, opts)
	if err != nil {
		return nil, err
	}

	cfg, err := ctx.ProjectConfig()
	if err != nil {
		return nil, err
	}
	env := binder.Environment(cfg, result)
	for _, line := range binder.EnvironmentLines(env) {
		_, _ = fmt.Fprintln(ctx.Out, line)
	}
	return env, nil
}

func bind(ctx *runtime.Context, opts CheckoutOptions) (*binder.Result, error) {
	cfg, err := ctx.ProjectConfig()
	if err != nil {
		return nil, err
	}
	branch, err := branchOrCurrent(ctx, opts.Branch)
	if err != nil {
		return nil, err
	}

	checkouter := opts.Checkouter
	if checkouter == nil {
		checkouter = git.NewCheckout(git.EnvCredentials{})
	}

	ctx.Splog.Debug("Binding %s with definition file %s", branch, cfg.DefinitionFile())
	return binder.New(cfg, checkouter, ctx.BuildLog()).
		Bind(ctx, branch, definition.ParseParameters(opts.Parameters))
}
