package cli

import (
	"github.com/spf13/cobra"

	"remotepipe.dev/remotepipe/internal/actions"
	"remotepipe.dev/remotepipe/internal/cli/common"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var opts actions.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a project configuration pointing at a definition repository",
		Example: `  remotepipe init --url https://github.com/acme/pipelines.git --branch master
  remotepipe init --url https://github.com/acme/pipelines.git --match-branches --marker .ci/enabled`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.InitAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "URL of the definition repository")
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "master", "Branch of the definition repository")
	cmd.Flags().StringVarP(&opts.DefinitionFile, "file", "f", "", "Definition file path (default Jenkinsfile)")
	cmd.Flags().StringVar(&opts.CredentialsID, "credentials", "", "Credentials ID, read from REMOTEPIPE_CREDENTIALS_<ID>")
	cmd.Flags().BoolVar(&opts.MatchBranches, "match-branches", false, "Check out the definition branch named like the project branch")
	cmd.Flags().StringVar(&opts.FallbackBranch, "fallback", "", "Fallback branch when the matching branch is missing (default master)")
	cmd.Flags().StringVar(&opts.LocalMarker, "marker", "", "Path that must exist in a project branch for it to be built")
	cmd.Flags().BoolVar(&opts.StrictMarker, "strict-marker", false, "Reject markers that are directories")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing configuration")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
