package github

import (
	"fmt"
	"strings"
)

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseRepository accepts either "owner/repo" (github.com) or a full remote URL
func ParseRepository(repository string) (*RepoInfo, error) {
	repository = strings.TrimSpace(repository)
	if !strings.Contains(repository, "://") && !strings.Contains(repository, "@") {
		parts := strings.Split(strings.TrimSuffix(repository, ".git"), "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return &RepoInfo{Hostname: "github.com", Owner: parts[0], Repo: parts[1]}, nil
		}
	}
	return ParseGitHubRemoteURL(repository)
}

// ParseGitHubRemoteURL parses a git remote URL and extracts hostname, owner, and repo
// Supports both github.com and GitHub Enterprise URLs
// Examples:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - ssh://git@github.company.com/owner/repo.git
func ParseGitHubRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(strings.TrimSuffix(remoteURL, "/"), ".git")

	var hostname, path string
	switch {
	case strings.Contains(remoteURL, "://"):
		// scheme://[user@]hostname[:port]/owner/repo
		_, rest, _ := strings.Cut(remoteURL, "://")
		if _, afterUser, found := strings.Cut(rest, "@"); found {
			rest = afterUser
		}
		host, p, found := strings.Cut(rest, "/")
		if !found {
			return nil, fmt.Errorf("invalid remote URL %q: missing path", remoteURL)
		}
		hostname, _, _ = strings.Cut(host, ":")
		path = p
	case strings.Contains(remoteURL, "@"):
		// scp-like: git@hostname:owner/repo
		_, hostAndPath, _ := strings.Cut(remoteURL, "@")
		host, p, found := strings.Cut(hostAndPath, ":")
		if !found {
			return nil, fmt.Errorf("invalid SSH remote URL %q", remoteURL)
		}
		hostname = host
		path = p
	default:
		return nil, fmt.Errorf("invalid remote URL %q: must be a URL or git@host:owner/repo", remoteURL)
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid remote URL %q: path must be owner/repo", remoteURL)
	}
	owner := parts[len(parts)-2]
	repo := parts[len(parts)-1]

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL")
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}
