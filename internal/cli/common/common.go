// Package common provides shared helper functions for CLI commands.
package common

import (
	"github.com/spf13/cobra"

	"remotepipe.dev/remotepipe/internal/git"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// Persistent flag names registered on the root command
const (
	FlagConfig = "config"
	FlagDir    = "dir"
)

// CompleteBranches is a cobra.ValidArgsFunction that returns the branch names
// of the project repository for a command's single branch argument.
func CompleteBranches(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	dir, _ := cmd.Flags().GetString(FlagDir)
	if dir == "" {
		dir = "."
	}
	repo, err := git.OpenRepository(dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := repo.GetBranchNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	configPath, _ := cmd.Flags().GetString(FlagConfig)
	dir, _ := cmd.Flags().GetString(FlagDir)

	ctx, err := runtime.NewContext(cmd.Context(), runtime.Options{
		Dir:        dir,
		ConfigPath: configPath,
		Out:        cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = ctx.Close() }()

	return fn(ctx)
}
