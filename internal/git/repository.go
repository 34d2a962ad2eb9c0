package git

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"

	rperrors "remotepipe.dev/remotepipe/internal/errors"
)

// Repository wraps a go-git repository
type Repository struct {
	*git.Repository
	path string
}

// OpenRepository opens a git repository at the given path
func OpenRepository(path string) (*Repository, error) {
	// Resolve to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// CloneBare clones url into memory without a worktree. It is used to
// discover and probe the branches of a repository that is not on disk.
func CloneBare(ctx context.Context, url string, auth transport.AuthMethod) (*Repository, error) {
	repo, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:  url,
		Auth: auth,
		Tags: git.NoTags,
	})
	if err != nil {
		return nil, ClassifyError(url, "", err)
	}
	return &Repository{Repository: repo, path: url}, nil
}

// Path returns the path or URL the repository was opened from
func (r *Repository) Path() string {
	return r.path
}

// GetBranchNames returns all branch names, local and remote-tracking
// (without the remote prefix), sorted and deduplicated
func (r *Repository) GetBranchNames() ([]string, error) {
	refs, err := r.References()
	if err != nil {
		return nil, fmt.Errorf("failed to get references: %w", err)
	}

	seen := map[string]bool{}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		switch {
		case name.IsBranch():
			seen[name.Short()] = true
		case name.IsRemote():
			short := strings.TrimPrefix(name.String(), "refs/remotes/")
			_, branch, ok := strings.Cut(short, "/")
			if ok && branch != "HEAD" {
				seen[branch] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetCurrentBranch returns the current branch name
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is not on a branch")
	}

	return head.Name().Short(), nil
}

// ResolveBranch resolves a branch name to its head commit hash, trying the
// local branch first and then the origin remote-tracking branch
func (r *Repository) ResolveBranch(branch string) (plumbing.Hash, error) {
	candidates := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(branch),
		plumbing.NewRemoteReferenceName("origin", branch),
	}
	for _, name := range candidates {
		if ref, err := r.Reference(name, true); err == nil {
			return ref.Hash(), nil
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("branch %s: %w", branch, rperrors.ErrRefNotFound)
}

// BranchTree returns the root tree of a branch head
func (r *Repository) BranchTree(branch string) (*object.Tree, error) {
	hash, err := r.ResolveBranch(branch)
	if err != nil {
		return nil, err
	}
	commit, err := r.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", hash, err)
	}
	return tree, nil
}
