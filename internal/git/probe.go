package git

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"remotepipe.dev/remotepipe/internal/criteria"
)

// TreeProbe stats paths in the tree of one branch head. It is not safe for
// concurrent use.
type TreeProbe struct {
	branch string
	tree   *object.Tree
}

var _ criteria.Probe = (*TreeProbe)(nil)

// NewTreeProbe creates a probe over the head tree of branch in repo
func NewTreeProbe(repo *Repository, branch string) (*TreeProbe, error) {
	tree, err := repo.BranchTree(branch)
	if err != nil {
		return nil, err
	}
	return &TreeProbe{branch: branch, tree: tree}, nil
}

// Name returns the branch name
func (p *TreeProbe) Name() string {
	return p.branch
}

// Stat reports the kind of entry at p. Missing paths carry a case-insensitive
// alternative when one exists.
func (p *TreeProbe) Stat(_ context.Context, name string) (criteria.ProbeStat, error) {
	clean := cleanTreePath(name)
	if clean == "" {
		return criteria.ProbeStat{Kind: criteria.Directory}, nil
	}

	entry, err := p.tree.FindEntry(clean)
	if err != nil {
		if errors.Is(err, object.ErrEntryNotFound) ||
			errors.Is(err, object.ErrDirectoryNotFound) ||
			errors.Is(err, plumbing.ErrObjectNotFound) {
			return criteria.ProbeStat{
				Kind:            criteria.Nonexistent,
				AlternativePath: findAlternative(p.tree, clean),
			}, nil
		}
		return criteria.ProbeStat{}, fmt.Errorf("failed to stat %s on %s: %w", clean, p.branch, err)
	}

	if entry.Mode == filemode.Dir {
		return criteria.ProbeStat{Kind: criteria.Directory}, nil
	}
	return criteria.ProbeStat{Kind: criteria.Other}, nil
}

func cleanTreePath(name string) string {
	clean := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimPrefix(clean, "/")
}

// findAlternative walks name one component at a time, matching each
// component case-insensitively. It returns "" when no differently-cased
// path exists.
func findAlternative(tree *object.Tree, name string) string {
	parts := strings.Split(name, "/")
	found := make([]string, 0, len(parts))
	current := tree

	for i, part := range parts {
		var match *object.TreeEntry
		for j := range current.Entries {
			if strings.EqualFold(current.Entries[j].Name, part) {
				match = &current.Entries[j]
				break
			}
		}
		if match == nil {
			return ""
		}
		found = append(found, match.Name)

		if i == len(parts)-1 {
			break
		}
		if match.Mode != filemode.Dir {
			return ""
		}
		sub, err := current.Tree(match.Name)
		if err != nil {
			return ""
		}
		current = sub
	}

	alternative := strings.Join(found, "/")
	if alternative == name {
		return ""
	}
	return alternative
}
