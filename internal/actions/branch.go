package actions

import (
	"fmt"

	"remotepipe.dev/remotepipe/internal/git"
	"remotepipe.dev/remotepipe/internal/runtime"
)

// branchOrCurrent returns branch, or the checked-out branch of the project
// repository when branch is empty
func branchOrCurrent(ctx *runtime.Context, branch string) (string, error) {
	if branch != "" {
		return branch, nil
	}
	repo, err := git.OpenRepository(ctx.ProjectDir)
	if err != nil {
		return "", fmt.Errorf("no branch given and %s is not a git repository: %w", ctx.ProjectDir, err)
	}
	current, err := repo.GetCurrentBranch()
	if err != nil {
		return "", fmt.Errorf("no branch given: %w", err)
	}
	ctx.Splog.Debug("Using current branch %s", current)
	return current, nil
}
