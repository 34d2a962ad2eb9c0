package cli

import (
	"github.com/spf13/cobra"

	"remotepipe.dev/remotepipe/internal/actions"
	"remotepipe.dev/remotepipe/internal/cli/common"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// newResolveCmd creates the resolve command
func newResolveCmd() *cobra.Command {
	var opts actions.ResolveOptions

	cmd := &cobra.Command{
		Use:               "resolve [branch]",
		Short:             "Show where the definition for a branch would be read from",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Branch = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.ResolveAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Fallback, "fallback", false, "Show the fallback target instead")

	return cmd
}
