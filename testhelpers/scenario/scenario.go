// Package scenario provides a high-level test scenario that combines a
// definition repository, a project repository and the remotepipe CLI to
// provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"remotepipe.dev/remotepipe/internal/cli"
	"remotepipe.dev/remotepipe/testhelpers"
)

// Scenario holds the repositories of one integration test
type Scenario struct {
	T *testing.T
	// Definitions is the repository holding pipeline definitions
	Definitions *testhelpers.Scene
	// Project is the repository whose branches are built
	Project *testhelpers.Scene

	definitionsURL string
}

// NewScenario creates a scenario with the given definition branches and
// project branches. It is safe for parallel tests.
func NewScenario(t *testing.T, definitions, project testhelpers.BranchFiles) *Scenario {
	t.Helper()
	return &Scenario{
		T:           t,
		Definitions: testhelpers.NewSceneParallel(t, testhelpers.BranchesSetup(definitions)),
		Project:     testhelpers.NewSceneParallel(t, testhelpers.BranchesSetup(project)),
	}
}

// DefinitionsURL returns the clone URL of the definition repository: its
// bare remote once published, its working directory otherwise
func (s *Scenario) DefinitionsURL() string {
	if s.definitionsURL != "" {
		return s.definitionsURL
	}
	return s.Definitions.Dir
}

// PublishDefinitions pushes every definition branch to a bare remote and
// serves definitions from it. Later CommitDefinition calls are not pushed.
func (s *Scenario) PublishDefinitions() *Scenario {
	s.T.Helper()
	bareDir, err := s.Definitions.Repo.Publish("origin")
	require.NoError(s.T, err)
	s.definitionsURL = bareDir
	return s
}

// Init runs `remotepipe init` against the definition repository with extra flags
func (s *Scenario) Init(flags ...string) *Scenario {
	s.T.Helper()
	args := append([]string{"init", "--url", s.DefinitionsURL()}, flags...)
	out, err := s.Run(args...)
	require.NoError(s.T, err, out)
	return s
}

// Run executes the CLI in-process in the project directory and returns its output
func (s *Scenario) Run(args ...string) (string, error) {
	s.T.Helper()
	return s.execute(append([]string{"--dir", s.Project.Dir}, args...)...)
}

func (s *Scenario) execute(args ...string) (string, error) {
	var out bytes.Buffer
	root := cli.NewRootCmd("test", "none", "unknown")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// Complete asks the CLI for shell completions of the next argument of command
func (s *Scenario) Complete(command, toComplete string) string {
	s.T.Helper()
	out, err := s.execute("__complete", command, "--dir", s.Project.Dir, toComplete)
	require.NoError(s.T, err, out)
	return out
}

// MustRun executes the CLI in-process and fails the test on error
func (s *Scenario) MustRun(args ...string) string {
	s.T.Helper()
	out, err := s.Run(args...)
	require.NoError(s.T, err, out)
	return out
}

// RunBinary executes the built remotepipe binary in the project directory
func (s *Scenario) RunBinary(args ...string) (string, error) {
	s.T.Helper()
	cmd := exec.Command(testhelpers.RequireBinary(s.T), args...)
	cmd.Dir = s.Project.Dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// CommitDefinition commits files on a definition branch, creating it from master if needed
func (s *Scenario) CommitDefinition(branch string, files map[string]string) *Scenario {
	s.T.Helper()
	repo := s.Definitions.Repo
	branches, err := repo.GetLocalBranches()
	require.NoError(s.T, err)

	exists := false
	for _, b := range branches {
		if b == branch {
			exists = true
		}
	}
	if exists {
		require.NoError(s.T, repo.CheckoutBranch(branch))
	} else {
		require.NoError(s.T, repo.CheckoutBranch("master"))
		require.NoError(s.T, repo.CreateAndCheckoutBranch(branch))
	}
	require.NoError(s.T, repo.CommitFiles("update "+branch, files))
	require.NoError(s.T, repo.CheckoutBranch("master"))
	return s
}
