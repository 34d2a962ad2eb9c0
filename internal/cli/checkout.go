package cli

import (
	"github.com/spf13/cobra"

	"remotepipe.dev/remotepipe/internal/actions"
	"remotepipe.dev/remotepipe/internal/cli/common"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// newCheckoutCmd creates the checkout command
func newCheckoutCmd() *cobra.Command {
	var opts actions.CheckoutOptions

	cmd := &cobra.Command{
		Use:   "checkout [branch]",
		Short: "Fetch the pipeline definition for a branch",
		Long: `Fetch the pipeline definition for a branch from the definition repository.

With matchBranches set, the definition branch named like the project branch is
used, falling back once to the fallback branch when it does not exist. The
branch defaults to the one checked out in the project directory.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Branch = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.CheckoutAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Parameters, "param", "p", nil, "Build parameter name=value, used by lookupInParameters")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "Print the definition content")

	return cmd
}

// newEnvCmd creates the env command
func newEnvCmd() *cobra.Command {
	var opts actions.CheckoutOptions

	cmd := &cobra.Command{
		Use:               "env [branch]",
		Short:             "Print the build environment contributed by the definition source",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Branch = args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.EnvAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Parameters, "param", "p", nil, "Build parameter name=value, used by lookupInParameters")

	return cmd
}
