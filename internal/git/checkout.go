package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"remotepipe.dev/remotepipe/internal/binder"
	"remotepipe.dev/remotepipe/internal/definition"
	rperrors "remotepipe.dev/remotepipe/internal/errors"
	"remotepipe.dev/remotepipe/internal/scm"
)

// Extension kinds understood by Checkout
const (
	// ExtensionCloneOption carries "depth" and "tags" settings
	ExtensionCloneOption = "clone-option"
	// ExtensionSubmoduleOption carries the "recursive" setting
	ExtensionSubmoduleOption = "submodule-option"
)

// Checkout clones a git definition source into memory and reads the
// definition file from it
type Checkout struct {
	credentials CredentialStore
}

// NewCheckout creates a Checkout. credentials may be nil for anonymous access.
func NewCheckout(credentials CredentialStore) *Checkout {
	if credentials == nil {
		credentials = EnvCredentials{}
	}
	return &Checkout{credentials: credentials}
}

var _ binder.Checkouter = (*Checkout)(nil)

// Checkout fetches the first branch of the target's source and returns the
// definition file. Every error is a classified *errors.CheckoutError.
func (c *Checkout) Checkout(ctx context.Context, target definition.ResolvedTarget) (*binder.CheckoutResult, error) {
	source, ok := target.Source.(*scm.GitSource)
	if !ok {
		return nil, fmt.Errorf("%w: %T", rperrors.ErrUnsupportedSource, target.Source)
	}
	remote, ok := source.PrimaryRemote()
	if !ok {
		return nil, rperrors.NewConfigError("source.remotes", "at least one remote is required")
	}
	branch := TargetBranch(target, source)
	if branch == "" {
		return nil, rperrors.ErrNoBranchSpec
	}

	auth, err := c.credentials.Auth(remote.CredentialsID)
	if err != nil {
		return nil, rperrors.NewCheckoutError(rperrors.KindAuth, remote.URL, branch, err)
	}

	opts := &git.CloneOptions{
		URL:           remote.URL,
		Auth:          auth,
		RemoteName:    remoteName(remote),
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Tags:          git.NoTags,
	}
	applyCloneOptions(source, opts)

	repo, err := git.CloneContext(ctx, memory.NewStorage(), memfs.New(), opts)
	if err != nil {
		return nil, ClassifyError(remote.URL, branch, err)
	}

	content, err := readWorktreeFile(repo, target.FilePath)
	if err != nil {
		return nil, ClassifyError(remote.URL, branch, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, ClassifyError(remote.URL, branch, err)
	}

	return &binder.CheckoutResult{
		Definition: content,
		Revision:   head.Hash().String(),
	}, nil
}

// TargetBranch returns the branch to clone for target. A pinned branch is a
// discovered branch name and is used as is; a configured branch spec is
// normalized, dropping "*/", "refs/heads/" and remote prefixes.
func TargetBranch(target definition.ResolvedTarget, source *scm.GitSource) string {
	if target.Pinned() && len(source.Branches) == 1 {
		return source.Branches[0].Name
	}
	return source.PrimaryBranch()
}

func remoteName(remote scm.RemoteConfig) string {
	if remote.Name == "" {
		return git.DefaultRemoteName
	}
	return remote.Name
}

// applyCloneOptions maps source extensions onto clone options
func applyCloneOptions(source *scm.GitSource, opts *git.CloneOptions) {
	if source.HasExtension(ExtensionCloneOption) {
		if depth, ok := source.ExtensionSetting(ExtensionCloneOption, "depth"); ok {
			if n, err := strconv.Atoi(depth); err == nil && n > 0 {
				opts.Depth = n
			}
		}
		if tags, _ := source.ExtensionSetting(ExtensionCloneOption, "tags"); tags == "true" {
			opts.Tags = git.AllTags
		}
	}

	recursive := false
	if source.HasExtension(ExtensionSubmoduleOption) {
		setting, _ := source.ExtensionSetting(ExtensionSubmoduleOption, "recursive")
		recursive = setting == "true"
	}
	if recursive || source.DoGenerateSubmoduleConfigurations || len(source.SubmoduleConfig) > 0 {
		opts.RecurseSubmodules = git.DefaultSubmoduleRecursionDepth
	}
}

func readWorktreeFile(repo *git.Repository, path string) ([]byte, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	file, err := worktree.Filesystem.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, rperrors.ErrDefinitionFileNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}
