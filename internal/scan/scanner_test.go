package scan_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/require"

	"remotepipe.dev/remotepipe/internal/criteria"
	rperrors "remotepipe.dev/remotepipe/internal/errors"
	"remotepipe.dev/remotepipe/internal/git"
	"remotepipe.dev/remotepipe/internal/output"
	"remotepipe.dev/remotepipe/internal/scan"
	"remotepipe.dev/remotepipe/testhelpers"
)

type staticSource struct {
	probes  map[string]*criteria.StaticProbe
	listErr error
}

func (s *staticSource) Branches(context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	names := make([]string, 0, len(s.probes))
	for name := range s.probes {
		names = append(names, name)
	}
	return names, nil
}

func (s *staticSource) Probe(_ context.Context, branch string) (criteria.Probe, error) {
	probe, ok := s.probes[branch]
	if !ok || probe == nil {
		return nil, errors.New("branch vanished")
	}
	return probe, nil
}

func newStaticSource() *staticSource {
	return &staticSource{probes: map[string]*criteria.StaticProbe{
		"master":  {Branch: "master", Entries: map[string]criteria.PathKind{"build.marker": criteria.Other}},
		"feature": {Branch: "feature", Entries: map[string]criteria.PathKind{}, Alternatives: map[string]string{"build.marker": "Build.marker"}},
		"docs":    {Branch: "docs", Entries: map[string]criteria.PathKind{"build.marker": criteria.Directory}},
		"broken":  {Branch: "broken", Err: errors.New("timeout")},
		"gone":    nil,
	}}
}

func TestScan(t *testing.T) {
	t.Parallel()
	sink := output.NewRecorder()
	scanner := &scan.Scanner{
		Source:   newStaticSource(),
		Criteria: criteria.Criteria{Configured: true, Marker: "build.marker"},
		Sink:     sink,
	}

	report, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"docs", "master"}, report.Accepted)
	require.Equal(t, []string{"broken", "feature", "gone"}, report.Rejected)
	require.Contains(t, sink.Lines(), "      ‘build.marker’ not found (but found ‘Build.marker’, search is case sensitive)")
	require.Contains(t, sink.Lines(), "Checking branch master")
}

func TestScanStrictMarker(t *testing.T) {
	t.Parallel()
	scanner := &scan.Scanner{
		Source:   newStaticSource(),
		Criteria: criteria.Criteria{Configured: true, Marker: "build.marker", Policy: criteria.DirectoryRejects},
	}

	report, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"master"}, report.Accepted)
}

func TestScanWithoutMarkerAcceptsAll(t *testing.T) {
	t.Parallel()
	source := newStaticSource()
	delete(source.probes, "gone")
	scanner := &scan.Scanner{Source: source, Criteria: criteria.Criteria{Configured: true}}

	report, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"broken", "docs", "feature", "master"}, report.Accepted)
	require.Empty(t, report.Rejected)
}

func TestScanUnconfiguredRejectsSilently(t *testing.T) {
	t.Parallel()
	sink := output.NewRecorder()
	scanner := &scan.Scanner{Source: newStaticSource(), Sink: sink}

	report, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Accepted)
	require.Len(t, report.Rejected, 5)
	require.Empty(t, sink.Lines())
}

func TestScanListError(t *testing.T) {
	t.Parallel()
	scanner := &scan.Scanner{
		Source:   &staticSource{listErr: errors.New("network down")},
		Criteria: criteria.Criteria{Configured: true},
	}

	_, err := scanner.Scan(context.Background())
	require.ErrorContains(t, err, "network down")
}

func TestScanLock(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	held := flock.New(filepath.Join(dir, "remotepipe-scan.lock"))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	scanner := &scan.Scanner{
		Source:      newStaticSource(),
		Criteria:    criteria.Criteria{Configured: true},
		LockDir:     dir,
		LockTimeout: 200 * time.Millisecond,
	}
	_, err = scanner.Scan(context.Background())
	require.ErrorIs(t, err, rperrors.ErrScanInProgress)

	require.NoError(t, held.Unlock())
	_, err = scanner.Scan(context.Background())
	require.NoError(t, err)

	// the lock is released after each scan
	_, err = scanner.Scan(context.Background())
	require.NoError(t, err)
}

func TestScanGitRepository(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BranchesSetup(testhelpers.BranchFiles{
		"master":    {"README.md": "# readme\n"},
		"service-a": {".ci/enabled": "yes\n"},
		"service-b": {".CI/enabled": "yes\n"},
	}))
	repo, err := git.OpenRepository(scene.Dir)
	require.NoError(t, err)

	sink := output.NewRecorder()
	scanner := &scan.Scanner{
		Source:   git.NewBranchSource(repo),
		Criteria: criteria.Criteria{Configured: true, Marker: ".ci/enabled"},
		Sink:     sink,
		LockDir:  t.TempDir(),
	}

	report, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"service-a"}, report.Accepted)
	require.Equal(t, []string{"master", "service-b"}, report.Rejected)
	testhelpers.ExpectLinesInOrder(t, sink.Lines(),
		"Checking branch master",
		"‘.ci/enabled’ not found",
		"Checking branch service-a",
		"‘.ci/enabled’ found",
		"Checking branch service-b",
		"(but found ‘.CI/enabled’, search is case sensitive)",
	)
}
