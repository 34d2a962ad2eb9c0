package git

import (
	"context"

	"remotepipe.dev/remotepipe/internal/criteria"
)

// BranchSource enumerates and probes the branches of a go-git repository,
// either opened from disk or cloned into memory
type BranchSource struct {
	repo *Repository
}

// NewBranchSource creates a branch source over repo
func NewBranchSource(repo *Repository) *BranchSource {
	return &BranchSource{repo: repo}
}

// Branches returns every branch name in the repository
func (s *BranchSource) Branches(_ context.Context) ([]string, error) {
	return s.repo.GetBranchNames()
}

// Probe returns a tree probe for branch
func (s *BranchSource) Probe(_ context.Context, branch string) (criteria.Probe, error) {
	return NewTreeProbe(s.repo, branch)
}
