package actions

import (
	"fmt"
	"time"

	"remotepipe.dev/remotepipe/internal/git"
	"remotepipe.dev/remotepipe/internal/github"
	"remotepipe.dev/remotepipe/internal/runtime"
	"remotepipe.dev/remotepipe/internal/scan"
)

const scanLockTimeout = 30 * time.Second

// ScanOptions contains options for the scan command
type ScanOptions struct {
	// GitHubRepo scans "owner/repo" through the GitHub API instead of the local repository
	GitHubRepo string
	// Remote scans a bare in-memory clone of this URL instead of the local repository
	Remote string
	// CredentialsID authenticates Remote
	CredentialsID string
	// Source overrides branch discovery
	Source scan.BranchSource
}

// ScanAction lists the branches of the project repository that are eligible
// to become branch jobs
func ScanAction(ctx *runtime.Context, opts ScanOptions) (*scan.Report, error) {
	source, lockKey, err := scanSource(ctx, opts)
	if err != nil {
		return nil, err
	}

	project := ctx.Config.ToProjectConfig()
	if !project.IsComplete() {
		ctx.Splog.Warn("No definition source configured in %s; every branch is skipped", ctx.ConfigPath)
	}

	scanner := &scan.Scanner{
		Source:      source,
		Criteria:    project.Criteria(),
		Sink:        ctx.BuildLog(),
		LockDir:     ctx.LockDir(lockKey),
		LockTimeout: scanLockTimeout,
	}
	report, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	styles := ctx.Styles()
	ctx.Splog.Newline()
	if len(report.Accepted) == 0 {
		ctx.Splog.Info("No eligible branches.")
		if marker := ctx.Config.LocalMarker; marker != "" && project.IsComplete() {
			ctx.Splog.Tip("Commit %s to a branch to make it eligible", marker)
		}
	} else {
		ctx.Splog.Info("Eligible branches:")
		for _, branch := range report.Accepted {
			_, _ = fmt.Fprintln(ctx.Out, "  "+styles.Accepted(branch))
		}
	}
	for _, branch := range report.Rejected {
		ctx.Splog.Debug("  skipped %s", styles.Rejected(branch))
	}
	return report, nil
}

func scanSource(ctx *runtime.Context, opts ScanOptions) (scan.BranchSource, string, error) {
	if opts.Source != nil {
		return opts.Source, ctx.ProjectDir, nil
	}

	if opts.GitHubRepo != "" {
		client, err := github.NewClientForRepo(ctx, opts.GitHubRepo)
		if err != nil {
			return nil, "", err
		}
		owner, repo := client.GetOwnerRepo()
		return client, owner + "/" + repo, nil
	}

	if opts.Remote != "" {
		auth, err := git.EnvCredentials{}.Auth(opts.CredentialsID)
		if err != nil {
			return nil, "", err
		}
		ctx.Splog.Info("Fetching branches of %s...", opts.Remote)
		repo, err := git.CloneBare(ctx, opts.Remote, auth)
		if err != nil {
			return nil, "", err
		}
		return git.NewBranchSource(repo), repo.Path(), nil
	}

	repo, err := git.OpenRepository(ctx.ProjectDir)
	if err != nil {
		return nil, "", fmt.Errorf("not a git repository: %w", err)
	}
	return git.NewBranchSource(repo), repo.Path(), nil
}
