// Package scan discovers the branches of a repository that are eligible to
// become branch jobs.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"remotepipe.dev/remotepipe/internal/criteria"
	rperrors "remotepipe.dev/remotepipe/internal/errors"
	"remotepipe.dev/remotepipe/internal/output"
)

const (
	lockFileName = "remotepipe-scan.lock"
	lockRetry    = 100 * time.Millisecond
)

// BranchSource enumerates branches and opens a probe per branch
type BranchSource interface {
	Branches(ctx context.Context) ([]string, error)
	Probe(ctx context.Context, branch string) (criteria.Probe, error)
}

// Report lists the outcome of a scan, each list sorted
type Report struct {
	Accepted []string
	Rejected []string
}

// Scanner runs branch criteria over every branch of a source
type Scanner struct {
	Source   BranchSource
	Criteria criteria.Criteria
	Sink     output.Sink
	// LockDir holds the per-project lock file. Empty disables locking.
	LockDir string
	// LockTimeout bounds the wait for a concurrent scan. Zero fails at once.
	LockTimeout time.Duration
}

// Scan evaluates every branch. Per-branch failures reject that branch only;
// a failure to list branches or take the lock fails the scan.
func (s *Scanner) Scan(ctx context.Context) (*Report, error) {
	sink := s.Sink
	if sink == nil {
		sink = output.Discard
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	branches, err := s.Source.Branches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	report := &Report{}
	for _, branch := range branches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.accepts(ctx, branch, sink) {
			report.Accepted = append(report.Accepted, branch)
		} else {
			report.Rejected = append(report.Rejected, branch)
		}
	}

	sort.Strings(report.Accepted)
	sort.Strings(report.Rejected)
	return report, nil
}

func (s *Scanner) accepts(ctx context.Context, branch string, sink output.Sink) bool {
	if !s.Criteria.Configured {
		return false
	}

	sink.Printf("Checking branch %s", branch)
	probe, err := s.Source.Probe(ctx, branch)
	if err != nil {
		sink.Printf("      could not open branch %s: %v", branch, err)
		return false
	}
	return s.Criteria.Accepts(ctx, probe, sink)
}

// lock takes the per-project scan lock and returns its release function
func (s *Scanner) lock(ctx context.Context) (func(), error) {
	if s.LockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(s.LockDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(filepath.Join(s.LockDir, lockFileName))
	var locked bool
	var err error
	if s.LockTimeout > 0 {
		lockCtx, cancel := context.WithTimeout(ctx, s.LockTimeout)
		defer cancel()
		locked, err = fl.TryLockContext(lockCtx, lockRetry)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = nil
		}
	} else {
		locked, err = fl.TryLock()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire scan lock: %w", err)
	}
	if !locked {
		return nil, rperrors.ErrScanInProgress
	}

	return func() { _ = fl.Unlock() }, nil
}
