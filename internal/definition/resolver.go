package definition

import (
	"remotepipe.dev/remotepipe/internal/scm"
)

// State is the resolver state that produced a ResolvedTarget
type State int

const (
	// StateDirect uses the configured source unmodified
	StateDirect State = iota
	// StatePinned pins the source to the requested branch
	StatePinned
	// StateFallback pins the source to the fallback branch
	StateFallback
)

func (s State) String() string {
	switch s {
	case StatePinned:
		return "pinned"
	case StateFallback:
		return "fallback"
	default:
		return "direct"
	}
}

// ResolvedTarget is the checkout target for one build attempt
type ResolvedTarget struct {
	Source     scm.SourceDescriptor
	FilePath   string
	BranchUsed string
	State      State
}

// Pinned reports whether the target was pinned to a single branch
func (t ResolvedTarget) Pinned() bool {
	return t.State != StateDirect
}

// Resolver produces ResolvedTargets for a project
type Resolver struct {
	config *ProjectConfig
}

// NewResolver creates a Resolver for cfg
func NewResolver(cfg *ProjectConfig) *Resolver {
	return &Resolver{config: cfg}
}

// Config returns the project configuration
func (r *Resolver) Config() *ProjectConfig {
	return r.config
}

// Resolve returns the target for building requestedBranch. If branch matching
// is enabled and the source supports it, the source is pinned to
// requestedBranch; otherwise it is returned unmodified.
func (r *Resolver) Resolve(requestedBranch string) ResolvedTarget {
	pinnable, ok := scm.AsPinnable(r.config.source)
	if !r.config.matchBranches || !ok {
		return ResolvedTarget{
			Source:     r.config.source,
			FilePath:   r.config.definitionFile,
			BranchUsed: requestedBranch,
			State:      StateDirect,
		}
	}
	return ResolvedTarget{
		Source:     pinnable.WithSingleBranch(requestedBranch),
		FilePath:   r.config.definitionFile,
		BranchUsed: requestedBranch,
		State:      StatePinned,
	}
}

// ResolveFallback returns the target pinned to the fallback branch. It is
// only meaningful after a pinned target failed with a ref-not-found error; if
// the source is not pinnable the direct target for the fallback branch is
// returned.
func (r *Resolver) ResolveFallback() ResolvedTarget {
	target := r.Resolve(r.config.fallbackBranch)
	if target.State == StatePinned {
		target.State = StateFallback
	}
	return target
}
