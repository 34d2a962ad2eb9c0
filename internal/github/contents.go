package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/go-github/v62/github"

	"remotepipe.dev/remotepipe/internal/criteria"
)

// ContentsProbe stats paths of one branch through the contents API
type ContentsProbe struct {
	client *Client
	branch string
}

var _ criteria.Probe = (*ContentsProbe)(nil)

// NewContentsProbe creates a probe for branch
func NewContentsProbe(client *Client, branch string) *ContentsProbe {
	return &ContentsProbe{client: client, branch: branch}
}

// Name returns the branch name
func (p *ContentsProbe) Name() string {
	return p.branch
}

// Stat reports the kind of entry at name. A 404 is a nonexistent path; other
// API failures are returned as errors.
func (p *ContentsProbe) Stat(ctx context.Context, name string) (criteria.ProbeStat, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" {
		return criteria.ProbeStat{Kind: criteria.Directory}, nil
	}

	file, dir, found, err := p.get(ctx, clean)
	if err != nil {
		return criteria.ProbeStat{}, err
	}
	switch {
	case !found:
		alternative, err := p.findAlternative(ctx, clean)
		if err != nil {
			return criteria.ProbeStat{}, err
		}
		return criteria.ProbeStat{Kind: criteria.Nonexistent, AlternativePath: alternative}, nil
	case dir != nil || file.GetType() == "dir":
		return criteria.ProbeStat{Kind: criteria.Directory}, nil
	default:
		return criteria.ProbeStat{Kind: criteria.Other}, nil
	}
}

// get fetches contents at name. found is false on 404.
func (p *ContentsProbe) get(ctx context.Context, name string) (*github.RepositoryContent, []*github.RepositoryContent, bool, error) {
	opts := &github.RepositoryContentGetOptions{Ref: p.branch}
	file, dir, resp, err := p.client.client.Repositories.GetContents(ctx, p.client.owner, p.client.repo, name, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil, false, nil
		}
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("failed to get %s on %s: %w", name, p.branch, err)
	}
	return file, dir, true, nil
}

// findAlternative walks name one directory listing at a time, matching each
// component case-insensitively
func (p *ContentsProbe) findAlternative(ctx context.Context, name string) (string, error) {
	parts := strings.Split(name, "/")
	found := make([]string, 0, len(parts))

	for i, part := range parts {
		parent := strings.Join(found, "/")
		_, listing, ok, err := p.get(ctx, parent)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", nil
		}

		var match *github.RepositoryContent
		for _, entry := range listing {
			if strings.EqualFold(entry.GetName(), part) {
				match = entry
				break
			}
		}
		if match == nil {
			return "", nil
		}
		found = append(found, match.GetName())

		if i < len(parts)-1 && match.GetType() != "dir" {
			return "", nil
		}
	}

	alternative := strings.Join(found, "/")
	if alternative == name {
		return "", nil
	}
	return alternative, nil
}
