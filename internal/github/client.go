// Package github discovers branches and probes branch trees through the
// GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// Client reads branches and contents of one repository
type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient wraps an existing go-github client for owner/repo
func NewClient(client *github.Client, owner, repo string) *Client {
	return &Client{client: client, owner: owner, repo: repo}
}

// NewClientForRepo creates an authenticated client for a repository given as
// a remote URL or an "owner/repo" shorthand on github.com
func NewClientForRepo(ctx context.Context, repository string) (*Client, error) {
	info, err := ParseRepository(repository)
	if err != nil {
		return nil, err
	}

	token, err := getGitHubToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}

	client, err := createGitHubClient(ctx, info.Hostname, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return NewClient(client, info.Owner, info.Repo), nil
}

// GetOwnerRepo returns the repository owner and name
func (c *Client) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// createGitHubClient creates a GitHub client configured for the given hostname
// Supports both github.com and GitHub Enterprise instances
func createGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if hostname == "" || hostname == "github.com" {
		return client, nil
	}

	// GitHub Enterprise serves REST under /api/v3/ and uploads under /api/uploads/
	baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", hostname))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", hostname, err)
	}
	uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", hostname))
	if err != nil {
		return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", hostname, err)
	}
	client.BaseURL = baseURL
	client.UploadURL = uploadURL

	return client, nil
}

// getGitHubToken gets GitHub token from environment or gh CLI
func getGitHubToken(ctx context.Context) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("GITHUB_TOKEN is not set and gh auth token failed: %w", err)
	}

	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}
