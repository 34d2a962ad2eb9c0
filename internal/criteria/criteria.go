package criteria

import (
	"context"

	"remotepipe.dev/remotepipe/internal/output"
)

// Criteria is the per-project branch acceptance rule used during discovery
type Criteria struct {
	// Configured is false when the project lacks a definition source or
	// definition file. An unconfigured project rejects every branch silently.
	Configured bool
	Marker     string
	Policy     DirectoryPolicy
}

// Accepts reports whether the branch behind probe should become a branch job
func (c Criteria) Accepts(ctx context.Context, probe Probe, sink output.Sink) bool {
	if !c.Configured {
		return false
	}
	return Matches(ctx, c.Marker, probe, sink, c.Policy)
}
