package github

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/go-github/v62/github"

	"remotepipe.dev/remotepipe/internal/criteria"
)

const branchesPerPage = 100

// ListBranches returns every branch of the repository, following pagination
func (c *Client) ListBranches(ctx context.Context) ([]string, error) {
	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{PerPage: branchesPerPage},
	}

	var names []string
	for {
		branches, resp, err := c.client.Repositories.ListBranches(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches of %s/%s: %w", c.owner, c.repo, err)
		}
		for _, branch := range branches {
			names = append(names, branch.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	sort.Strings(names)
	return names, nil
}

// Branches returns every branch of the repository
func (c *Client) Branches(ctx context.Context) ([]string, error) {
	return c.ListBranches(ctx)
}

// Probe returns a contents probe for branch
func (c *Client) Probe(_ context.Context, branch string) (criteria.Probe, error) {
	return NewContentsProbe(c, branch), nil
}
