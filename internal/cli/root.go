// Package cli defines the remotepipe cobra commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"remotepipe.dev/remotepipe/internal/cli/common"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "remotepipe",
		Short: "Resolve branch pipelines against a shared definition repository",
		Long: `remotepipe binds the branches of a project to pipeline definitions kept in a
separate repository, checking out the matching branch of the definition
repository and falling back to a default branch when it does not exist.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(common.FlagConfig, "", "Path to the configuration file (default <dir>/.remotepipe.yaml)")
	rootCmd.PersistentFlags().StringP(common.FlagDir, "C", "", "Project directory (default current directory)")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newCheckoutCmd())
	rootCmd.AddCommand(newEnvCmd())

	return rootCmd
}
