package cli

import (
	"github.com/spf13/cobra"

	"remotepipe.dev/remotepipe/internal/actions"
	"remotepipe.dev/remotepipe/internal/cli/common"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// newScanCmd creates the scan command
func newScanCmd() *cobra.Command {
	var opts actions.ScanOptions

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the branches eligible to become branch jobs",
		Long: `List the branches of the project repository that carry the configured local
marker. Without a marker every branch is eligible. With --github the branches
are read through the GitHub API, and with --remote from a bare clone of any
git URL, instead of the local repository.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.ScanAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.GitHubRepo, "github", "", "Scan owner/repo (or a remote URL) through the GitHub API")
	cmd.Flags().StringVar(&opts.Remote, "remote", "", "Scan a bare clone of this git URL")
	cmd.Flags().StringVar(&opts.CredentialsID, "credentials", "", "Credentials ID for --remote")
	cmd.MarkFlagsMutuallyExclusive("github", "remote")

	return cmd
}
