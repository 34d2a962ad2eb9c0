package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"remotepipe.dev/remotepipe/internal/config"
	"remotepipe.dev/remotepipe/testhelpers"
	"remotepipe.dev/remotepipe/testhelpers/scenario"
)

func definitionBranches() testhelpers.BranchFiles {
	return testhelpers.BranchFiles{
		"master":  {"Jenkinsfile": "// master\n", "alt/Jenkinsfile": "// alt master\n"},
		"feature": {"Jenkinsfile": "// feature\n"},
	}
}

func projectBranches() testhelpers.BranchFiles {
	return testhelpers.BranchFiles{
		"master":  {"README.md": "# project\n", ".ci/enabled": "yes\n"},
		"feature": {"src/main.go": "package main\n"},
		"docs":    {"docs/index.md": "# docs\n"},
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	t.Run("writes the configuration", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())
		s.Init("--match-branches", "--marker", ".ci/enabled")

		cfg, err := config.LoadFrom(filepath.Join(s.Project.Dir, config.FileName))
		require.NoError(t, err)
		require.True(t, cfg.MatchBranches)
		require.Equal(t, ".ci/enabled", cfg.LocalMarker)
		require.Equal(t, []string{s.DefinitionsURL()}, cfg.Source.URLs())
	})

	t.Run("refuses to overwrite without --force", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())
		s.Init()

		_, err := s.Run("init", "--url", s.DefinitionsURL())
		require.ErrorContains(t, err, "--force")

		s.MustRun("init", "--url", s.DefinitionsURL(), "--force", "--file", "alt/Jenkinsfile")
		require.Equal(t, "alt/Jenkinsfile\n", s.MustRun("config", "get", "definitionFile"))
	})

	t.Run("requires a url", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())
		_, err := s.Run("init")
		require.Error(t, err)
	})
}

func TestConfigCommand(t *testing.T) {
	t.Parallel()

	t.Run("get returns defaults before init", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())
		require.Equal(t, "master\n", s.MustRun("config", "get", "fallbackBranch"))
	})

	t.Run("set persists the value", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).Init()

		out := s.MustRun("config", "set", "fallbackBranch", "feature")
		require.Contains(t, out, "Set fallbackBranch to: feature")
		require.Equal(t, "feature\n", s.MustRun("config", "get", "fallbackBranch"))
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())
		_, err := s.Run("config", "get", "trunk")
		require.ErrorContains(t, err, "unknown config key")
	})

	t.Run("works through the binary", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())

		out, err := s.RunBinary("init", "--url", s.DefinitionsURL())
		require.NoError(t, err, out)
		out, err = s.RunBinary("config", "set", "matchBranches", "true")
		require.NoError(t, err, out)
		out, err = s.RunBinary("config", "get", "matchBranches")
		require.NoError(t, err, out)
		require.Equal(t, "true", strings.TrimSpace(out))
	})
}

func TestScanCommand(t *testing.T) {
	t.Parallel()

	t.Run("lists branches carrying the marker", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			Init("--marker", ".ci/enabled")

		out := s.MustRun("scan")
		testhelpers.ExpectLinesInOrder(t, strings.Split(out, "\n"),
			"Checking branch docs",
			"‘.ci/enabled’ found",
			"Checking branch feature",
			"‘.ci/enabled’ found",
			"Checking branch master",
			"‘.ci/enabled’ found",
			"Eligible branches:",
		)
	})

	t.Run("without a marker every branch is eligible", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), testhelpers.BranchFiles{
			"master":    {"README.md": "x"},
			"release-1": {"README.md": "y"},
		}).Init()

		out := s.MustRun("scan")
		require.Contains(t, out, "No local marker defined")
		require.Contains(t, out, "  release-1")
	})

	t.Run("a missing marker rejects the branch", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			Init("--marker", "Dockerfile")

		out := s.MustRun("scan")
		require.Contains(t, out, "‘Dockerfile’ not found")
		require.Contains(t, out, "No eligible branches.")
		require.Contains(t, out, "Commit Dockerfile to a branch to make it eligible")
	})

	t.Run("scans a bare clone of a remote", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			PublishDefinitions().
			Init("--marker", "alt/Jenkinsfile")

		out := s.MustRun("scan", "--remote", s.DefinitionsURL())
		testhelpers.ExpectLinesInOrder(t, strings.Split(out, "\n"),
			"Fetching branches of "+s.DefinitionsURL()+"...",
			"Checking branch feature",
			"Checking branch master",
			"Eligible branches:",
		)
		require.NotContains(t, out, "Checking branch docs")
	})

	t.Run("rejects --github with --remote", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).Init()

		_, err := s.Run("scan", "--remote", s.DefinitionsURL(), "--github", "owner/repo")
		require.Error(t, err)
	})

	t.Run("unconfigured projects skip every branch", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())

		out := s.MustRun("scan")
		require.Contains(t, out, "No definition source configured")
		require.NotContains(t, out, "Checking branch")
	})
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()
	s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
		Init("--match-branches")

	out := s.MustRun("resolve", "feature")
	require.Contains(t, out, "Branch: feature")
	require.Contains(t, out, "File: Jenkinsfile")
	require.Contains(t, out, "State: pinned")

	out = s.MustRun("resolve", "feature", "--fallback")
	require.Contains(t, out, "Branch: master")
	require.Contains(t, out, "State: fallback")

	require.NoError(t, s.Project.Repo.CheckoutBranch("docs"))
	out = s.MustRun("resolve")
	require.Contains(t, out, "Branch: docs")
}

func TestCheckoutCommand(t *testing.T) {
	t.Parallel()

	t.Run("checks out the matching branch", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			Init("--match-branches")

		out := s.MustRun("checkout", "feature", "--print")
		require.Contains(t, out, "Branch: feature")
		require.Contains(t, out, "// feature")
	})

	t.Run("defaults to the current branch", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			Init("--match-branches")
		require.NoError(t, s.Project.Repo.CheckoutBranch("feature"))

		out := s.MustRun("checkout", "--print")
		require.Contains(t, out, "Branch: feature")
		require.Contains(t, out, "// feature")
	})

	t.Run("reads the latest definition commit", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			Init("--match-branches")
		s.CommitDefinition("feature", map[string]string{"Jenkinsfile": "// feature v2\n"}).
			CommitDefinition("docs", map[string]string{"Jenkinsfile": "// docs\n"})

		out := s.MustRun("checkout", "feature", "--print")
		require.Contains(t, out, "// feature v2")

		out = s.MustRun("checkout", "docs", "--print")
		require.Contains(t, out, "Branch: docs")
		require.NotContains(t, out, "Using the fallback branch")
	})

	t.Run("falls back to the fallback branch", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			PublishDefinitions().
			Init("--match-branches")

		out := s.MustRun("checkout", "docs", "--print")
		testhelpers.ExpectLinesInOrder(t, strings.Split(out, "\n"),
			"Failed to checkout for docs branch for Jenkins File",
			"Try to checkout master branch for Jenkins File.",
			"Branch: master",
			"Using the fallback branch master",
			"// master",
		)
	})

	t.Run("legacy parameter lookup selects the file", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			Init("--file", "${PIPELINE}")
		s.MustRun("config", "set", "lookupInParameters", "true")

		out := s.MustRun("checkout", "feature", "-p", "PIPELINE=alt/Jenkinsfile", "--print")
		require.Contains(t, out, "File: alt/Jenkinsfile")
		require.Contains(t, out, "// alt master")

		out = s.MustRun("checkout", "feature", "--print")
		require.Contains(t, out, "File: Jenkinsfile")
	})

	t.Run("a missing definition file fails without fallback", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
			Init("--match-branches", "--file", "missing.groovy")

		out, err := s.Run("checkout", "feature")
		require.Error(t, err)
		require.NotContains(t, out, "Try to checkout")
	})

	t.Run("fails before init", func(t *testing.T) {
		t.Parallel()
		s := scenario.NewScenario(t, definitionBranches(), projectBranches())
		_, err := s.Run("checkout", "feature")
		require.ErrorContains(t, err, "no definition source configured")
	})
}

func TestEnvCommand(t *testing.T) {
	t.Parallel()
	s := scenario.NewScenario(t, definitionBranches(), projectBranches()).
		Init("--match-branches", "--marker", ".ci/enabled")

	out := s.MustRun("env", "docs")
	require.Contains(t, out, "RJPP_BRANCH=master\n")
	require.Contains(t, out, "RJPP_JENKINSFILE=Jenkinsfile\n")
	require.Contains(t, out, "RJPP_LOCAL_MARKER=.ci/enabled\n")
	require.Contains(t, out, "RJPP_SCM_URL="+s.DefinitionsURL()+"\n")
}

func TestBranchCompletion(t *testing.T) {
	t.Parallel()
	s := scenario.NewScenario(t, definitionBranches(), projectBranches())

	for _, command := range []string{"checkout", "resolve", "env"} {
		out := s.Complete(command, "")
		require.Contains(t, out, "docs\n")
		require.Contains(t, out, "feature\n")
		require.Contains(t, out, "master\n")
	}
}

func TestConfigFlag(t *testing.T) {
	t.Parallel()
	s := scenario.NewScenario(t, definitionBranches(), projectBranches())
	path := filepath.Join(t.TempDir(), "custom.yaml")

	s.MustRun("--config", path, "init", "--url", s.DefinitionsURL())
	_, err := os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Project.Dir, config.FileName))
	require.True(t, os.IsNotExist(err))
}
