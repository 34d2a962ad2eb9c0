// Package criteria decides whether a discovered branch is eligible to become
// a buildable branch, based on an optional marker path in the branch's tree.
package criteria

import "context"

// PathKind is the kind of filesystem entry a probe found
type PathKind int

const (
	// Nonexistent means nothing exists at the path
	Nonexistent PathKind = iota
	// Directory means the path is a directory
	Directory
	// Other means the path is a regular file or equivalent (symlink, submodule)
	Other
)

func (k PathKind) String() string {
	switch k {
	case Nonexistent:
		return "nonexistent"
	case Directory:
		return "directory"
	default:
		return "other"
	}
}

// ProbeStat is the result of probing a path. AlternativePath may name a
// case-insensitive match when Kind is Nonexistent.
type ProbeStat struct {
	Kind            PathKind
	AlternativePath string
}

// Probe inspects the source tree of one discovered branch
type Probe interface {
	// Name returns the branch name under evaluation
	Name() string
	// Stat reports what exists at path, relative to the tree root
	Stat(ctx context.Context, path string) (ProbeStat, error)
}

// StaticProbe is a Probe backed by a fixed map of paths. Paths not in Entries
// are nonexistent; Alternatives supplies case-insensitive alternatives.
type StaticProbe struct {
	Branch       string
	Entries      map[string]PathKind
	Alternatives map[string]string
	Err          error
}

// Name returns the branch name
func (p *StaticProbe) Name() string {
	return p.Branch
}

// Stat looks up path in Entries
func (p *StaticProbe) Stat(_ context.Context, path string) (ProbeStat, error) {
	if p.Err != nil {
		return ProbeStat{}, p.Err
	}
	if kind, ok := p.Entries[path]; ok {
		return ProbeStat{Kind: kind}, nil
	}
	return ProbeStat{Kind: Nonexistent, AlternativePath: p.Alternatives[path]}, nil
}
