// Package scm describes source-control locations.
//
// A SourceDescriptor is an opaque value naming where something lives in
// source control. Descriptors that can be narrowed to a single branch
// implement BranchPinnable.
package scm

// SourceDescriptor is an opaque source-control location
type SourceDescriptor interface {
	// Kind names the descriptor variant, e.g. "git"
	Kind() string
	// URLs returns every repository URL the descriptor refers to
	URLs() []string
}

// BranchPinnable is implemented by descriptors whose branch specification
// can be replaced. WithSingleBranch must return a copy that differs from the
// receiver only in its branch list, which holds exactly the named branch.
type BranchPinnable interface {
	SourceDescriptor
	WithSingleBranch(name string) SourceDescriptor
}

// AsPinnable returns the descriptor's BranchPinnable capability if it has one
func AsPinnable(source SourceDescriptor) (BranchPinnable, bool) {
	if source == nil {
		return nil, false
	}
	pinnable, ok := source.(BranchPinnable)
	return pinnable, ok
}
