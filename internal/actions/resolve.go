package actions

import (
	"fmt"
	"strings"

	"remotepipe.dev/remotepipe/internal/definition"
	"remotepipe.dev/remotepipe/internal/git"
	"remotepipe.dev/remotepipe/internal/runtime"
	"remotepipe.dev/remotepipe/internal/scm"
)

// ResolveOptions contains options for the resolve command
type ResolveOptions struct {
	// Branch defaults to the checked-out branch of the project repository
	Branch   string
	Fallback bool
}

// ResolveAction prints where the definition for a branch would be read from,
// without contacting the definition repository
func ResolveAction(ctx *runtime.Context, opts ResolveOptions) (definition.ResolvedTarget, error) {
	cfg, err := ctx.ProjectConfig()
	if err != nil {
		return definition.ResolvedTarget{}, err
	}

	branch, err := branchOrCurrent(ctx, opts.Branch)
	if err != nil {
		return definition.ResolvedTarget{}, err
	}

	resolver := definition.NewResolver(cfg)
	target := resolver.Resolve(branch)
	if opts.Fallback {
		target = resolver.ResolveFallback()
	}

	printTarget(ctx, target)
	return target, nil
}

func printTarget(ctx *runtime.Context, target definition.ResolvedTarget) {
	styles := ctx.Styles()
	_, _ = fmt.Fprintln(ctx.Out, styles.Field("Source", styles.Path(strings.Join(target.Source.URLs(), ", "))))
	if source, ok := target.Source.(*scm.GitSource); ok {
		_, _ = fmt.Fprintln(ctx.Out, styles.Field("Branch", git.TargetBranch(target, source)))
	}
	_, _ = fmt.Fprintln(ctx.Out, styles.Field("File", styles.Path(target.FilePath)))
	_, _ = fmt.Fprintln(ctx.Out, styles.Field("State", target.State.String()))
}
