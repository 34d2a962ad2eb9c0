// Package testhelpers provides testing utilities for remotepipe,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExpectBranches asserts that the repository has exactly the expected local branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	sorted := append([]string(nil), expected...)
	sort.Strings(sorted)

	require.Equal(t, sorted, branches, "Branches do not match")
}

// ExpectLinesInOrder asserts that each want string appears in lines, in order,
// each in a later line than the previous one.
func ExpectLinesInOrder(t *testing.T, lines []string, want ...string) {
	t.Helper()

	next := 0
	for _, line := range lines {
		if next < len(want) && strings.Contains(line, want[next]) {
			next++
		}
	}
	require.Equal(t, len(want), next, "expected %q in order within:\n%v", want, lines)
}
