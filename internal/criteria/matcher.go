package criteria

import (
	"context"

	"remotepipe.dev/remotepipe/internal/output"
)

// DirectoryPolicy decides whether a marker path that turns out to be a
// directory satisfies the marker requirement
type DirectoryPolicy int

const (
	// DirectoryMatches accepts a directory: the marker only has to exist
	DirectoryMatches DirectoryPolicy = iota
	// DirectoryRejects requires the marker to be a regular file
	DirectoryRejects
)

// ParseDirectoryPolicy maps the strict-marker flag to a policy
func ParseDirectoryPolicy(strict bool) DirectoryPolicy {
	if strict {
		return DirectoryRejects
	}
	return DirectoryMatches
}

// Matches reports whether the branch behind probe is eligible, given an
// optional marker path. It never fails: probe errors reject the branch and
// are written to sink.
func Matches(ctx context.Context, marker string, probe Probe, sink output.Sink, policy DirectoryPolicy) bool {
	if sink == nil {
		sink = output.Discard
	}

	if marker == "" {
		sink.Println("No local marker defined. Skipping source probe, the pipeline definition is provided by the definition repository")
		return true
	}

	stat, err := probe.Stat(ctx, marker)
	if err != nil {
		sink.Printf("      ‘%s’ could not be probed: %v", marker, err)
		return false
	}

	switch stat.Kind {
	case Nonexistent:
		if stat.AlternativePath != "" {
			sink.Printf("      ‘%s’ not found (but found ‘%s’, search is case sensitive)", marker, stat.AlternativePath)
		} else {
			sink.Printf("      ‘%s’ not found", marker)
		}
		return false
	case Directory:
		if policy == DirectoryRejects {
			sink.Printf("      ‘%s’ found but is a directory not a file", marker)
			return false
		}
		sink.Printf("      ‘%s’ found directory", marker)
		return true
	default:
		sink.Printf("      ‘%s’ found", marker)
		return true
	}
}
