package git_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/require"

	"remotepipe.dev/remotepipe/internal/binder"
	"remotepipe.dev/remotepipe/internal/definition"
	rperrors "remotepipe.dev/remotepipe/internal/errors"
	"remotepipe.dev/remotepipe/internal/git"
	"remotepipe.dev/remotepipe/internal/output"
	"remotepipe.dev/remotepipe/internal/scm"
	"remotepipe.dev/remotepipe/testhelpers"
)

func newDefinitionScene(t *testing.T) *testhelpers.Scene {
	t.Helper()
	return testhelpers.NewSceneParallel(t, testhelpers.BranchesSetup(testhelpers.BranchFiles{
		"master": {
			"Jenkinsfile":           "// master pipeline\n",
			"pipelines/deploy.gdsl": "// master deploy\n",
		},
		"release": {
			"Jenkinsfile": "// release pipeline\n",
		},
	}))
}

func TestCheckout(t *testing.T) {
	t.Parallel()
	scene := newDefinitionScene(t)
	checkout := git.NewCheckout(nil)

	cfg := definition.NewProjectConfig(definition.Options{
		Source:        scm.NewGitSource(scene.Dir, "*/master"),
		MatchBranches: true,
	})
	target := definition.NewResolver(cfg).Resolve("release")

	result, err := checkout.Checkout(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, "// release pipeline\n", string(result.Definition))

	sha, err := scene.Repo.GetBranchSHA("release")
	require.NoError(t, err)
	require.Equal(t, sha, result.Revision)
}

func TestCheckoutNestedFile(t *testing.T) {
	t.Parallel()
	scene := newDefinitionScene(t)

	cfg := definition.NewProjectConfig(definition.Options{
		Source:         scm.NewGitSource(scene.Dir, "master"),
		DefinitionFile: "pipelines/deploy.gdsl",
	})
	target := definition.NewResolver(cfg).Resolve("anything")

	result, err := git.NewCheckout(nil).Checkout(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, "// master deploy\n", string(result.Definition))
}

func TestCheckoutMissingBranch(t *testing.T) {
	t.Parallel()
	scene := newDefinitionScene(t)

	cfg := definition.NewProjectConfig(definition.Options{
		Source:        scm.NewGitSource(scene.Dir, "master"),
		MatchBranches: true,
	})
	target := definition.NewResolver(cfg).Resolve("feature-without-definition-branch")

	_, err := git.NewCheckout(nil).Checkout(context.Background(), target)
	require.Error(t, err)
	require.True(t, rperrors.IsRefNotFound(err), "expected ref-not-found, got %v", err)
	require.True(t, errors.Is(err, rperrors.ErrRefNotFound))
}

func TestCheckoutMissingFile(t *testing.T) {
	t.Parallel()
	scene := newDefinitionScene(t)

	cfg := definition.NewProjectConfig(definition.Options{
		Source:         scm.NewGitSource(scene.Dir, "master"),
		DefinitionFile: "missing/Jenkinsfile",
	})
	target := definition.NewResolver(cfg).Resolve("master")

	_, err := git.NewCheckout(nil).Checkout(context.Background(), target)
	require.Error(t, err)
	require.Equal(t, rperrors.KindIO, rperrors.KindOf(err))
	require.ErrorIs(t, err, rperrors.ErrDefinitionFileNotFound)
	require.False(t, rperrors.IsRefNotFound(err))
}

func TestCheckoutMissingRepository(t *testing.T) {
	t.Parallel()

	cfg := definition.NewProjectConfig(definition.Options{
		Source: scm.NewGitSource(filepath.Join(t.TempDir(), "nowhere"), "master"),
	})
	target := definition.NewResolver(cfg).Resolve("master")

	_, err := git.NewCheckout(nil).Checkout(context.Background(), target)
	require.Error(t, err)
	require.False(t, rperrors.IsRefNotFound(err))
}

func TestCheckoutMissingCredentials(t *testing.T) {
	t.Parallel()
	scene := newDefinitionScene(t)

	source := scm.NewGitSource(scene.Dir, "master")
	source.Remotes[0].CredentialsID = "deploy-key"
	cfg := definition.NewProjectConfig(definition.Options{Source: source})
	target := definition.NewResolver(cfg).Resolve("master")

	store := git.EnvCredentials{Lookup: func(string) (string, bool) { return "", false }}
	_, err := git.NewCheckout(store).Checkout(context.Background(), target)
	require.Error(t, err)
	require.Equal(t, rperrors.KindAuth, rperrors.KindOf(err))
	require.Contains(t, err.Error(), "REMOTEPIPE_CREDENTIALS_DEPLOY_KEY")
}

func TestCheckoutRejectsUnsupportedSource(t *testing.T) {
	t.Parallel()

	_, err := git.NewCheckout(nil).Checkout(context.Background(), definition.ResolvedTarget{FilePath: "Jenkinsfile"})
	require.ErrorIs(t, err, rperrors.ErrUnsupportedSource)
}

func TestCheckoutFallsBackThroughBinder(t *testing.T) {
	t.Parallel()
	scene := newDefinitionScene(t)

	cfg := definition.NewProjectConfig(definition.Options{
		Source:        scm.NewGitSource(scene.Dir, "master"),
		MatchBranches: true,
	})
	log := output.NewRecorder()
	b := binder.New(cfg, git.NewCheckout(nil), log)

	result, err := b.Bind(context.Background(), "feature/no-such-branch", nil)
	require.NoError(t, err)
	require.True(t, result.FellBack)
	require.Equal(t, "master", result.Target.BranchUsed)
	require.Equal(t, "// master pipeline\n", string(result.Definition))

	testhelpers.ExpectLinesInOrder(t, log.Lines(),
		"Failed to checkout for feature/no-such-branch branch for Jenkins File",
		"Try to checkout master branch for Jenkins File.",
	)
}

func TestEnvCredentials(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"REMOTEPIPE_CREDENTIALS_BOT":        "robot:s3cret",
		"REMOTEPIPE_CREDENTIALS_TOKEN_ONLY": "abc123",
	}
	store := git.EnvCredentials{Lookup: func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}}

	auth, err := store.Auth("")
	require.NoError(t, err)
	require.Nil(t, auth)

	auth, err = store.Auth("bot")
	require.NoError(t, err)
	require.Equal(t, &http.BasicAuth{Username: "robot", Password: "s3cret"}, auth)

	auth, err = store.Auth("token.only")
	require.NoError(t, err)
	require.Equal(t, &http.BasicAuth{Username: "git", Password: "abc123"}, auth)

	_, err = store.Auth("unknown")
	require.Error(t, err)
}

func TestCheckoutCloneOptions(t *testing.T) {
	t.Parallel()
	scene := newDefinitionScene(t)
	require.NoError(t, scene.Repo.CommitFiles("v2", map[string]string{"Jenkinsfile": "// v2\n"}))

	source := scm.NewGitSource("file://"+scene.Dir, "master")
	source.Extensions = []scm.Extension{
		{Kind: git.ExtensionCloneOption, Settings: map[string]string{"depth": "1", "tags": "true"}},
	}
	cfg := definition.NewProjectConfig(definition.Options{Source: source})
	target := definition.NewResolver(cfg).Resolve("master")

	result, err := git.NewCheckout(nil).Checkout(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, "// v2\n", string(result.Definition))

	sha, err := scene.Repo.GetBranchSHA("master")
	require.NoError(t, err)
	require.Equal(t, sha, result.Revision)
}

// newSubmoduleScene creates a definition repository whose master branch
// carries a shared library as a submodule at vendor/lib
func newSubmoduleScene(t *testing.T) *testhelpers.Scene {
	t.Helper()
	lib := testhelpers.NewSceneParallel(t, testhelpers.BranchesSetup(testhelpers.BranchFiles{
		"master": {"lib.groovy": "// shared lib\n"},
	}))
	scene := newDefinitionScene(t)
	require.NoError(t, scene.Repo.RunGitCommand("-c", "protocol.file.allow=always", "submodule", "add", lib.Dir, "vendor/lib"))
	require.NoError(t, scene.Repo.RunGitCommand("commit", "-m", "add shared lib"))
	return scene
}

func TestCheckoutSubmodules(t *testing.T) {
	t.Parallel()

	t.Run("recursive extension checks out submodules", func(t *testing.T) {
		t.Parallel()
		scene := newSubmoduleScene(t)

		source := scm.NewGitSource(scene.Dir, "master")
		source.Extensions = []scm.Extension{
			{Kind: git.ExtensionSubmoduleOption, Settings: map[string]string{"recursive": "true"}},
		}
		cfg := definition.NewProjectConfig(definition.Options{
			Source:         source,
			DefinitionFile: "vendor/lib/lib.groovy",
		})
		target := definition.NewResolver(cfg).Resolve("master")

		result, err := git.NewCheckout(nil).Checkout(context.Background(), target)
		require.NoError(t, err)
		require.Equal(t, "// shared lib\n", string(result.Definition))
	})

	t.Run("submodule config survives pinning", func(t *testing.T) {
		t.Parallel()
		scene := newSubmoduleScene(t)

		source := scm.NewGitSource(scene.Dir, "release")
		source.SubmoduleConfig = []scm.SubmoduleConfig{{SubmoduleName: "vendor/lib", Branches: []string{"master"}}}
		cfg := definition.NewProjectConfig(definition.Options{
			Source:         source,
			DefinitionFile: "vendor/lib/lib.groovy",
			MatchBranches:  true,
		})
		target := definition.NewResolver(cfg).Resolve("master")
		require.True(t, target.Pinned())

		result, err := git.NewCheckout(nil).Checkout(context.Background(), target)
		require.NoError(t, err)
		require.Equal(t, "// shared lib\n", string(result.Definition))
	})

	t.Run("submodules are skipped by default", func(t *testing.T) {
		t.Parallel()
		scene := newSubmoduleScene(t)

		cfg := definition.NewProjectConfig(definition.Options{
			Source:         scm.NewGitSource(scene.Dir, "master"),
			DefinitionFile: "vendor/lib/lib.groovy",
		})
		target := definition.NewResolver(cfg).Resolve("master")

		_, err := git.NewCheckout(nil).Checkout(context.Background(), target)
		require.ErrorIs(t, err, rperrors.ErrDefinitionFileNotFound)
	})
}

func TestCheckoutPinnedBranchKeepsRemotePrefix(t *testing.T) {
	t.Parallel()
	scene := testhelpers.NewSceneParallel(t, testhelpers.BranchesSetup(testhelpers.BranchFiles{
		"master":        {"Jenkinsfile": "// master\n"},
		"hotfix":        {"Jenkinsfile": "// hotfix\n"},
		"origin/hotfix": {"Jenkinsfile": "// origin hotfix\n"},
	}))

	cfg := definition.NewProjectConfig(definition.Options{
		Source:        scm.NewGitSource(scene.Dir, "master"),
		MatchBranches: true,
	})
	target := definition.NewResolver(cfg).Resolve("origin/hotfix")

	result, err := git.NewCheckout(nil).Checkout(context.Background(), target)
	require.NoError(t, err)
	require.Equal(t, "// origin hotfix\n", string(result.Definition))
}

func TestTargetBranch(t *testing.T) {
	t.Parallel()

	source := scm.NewGitSource("https://git.example.com/p.git", "origin/develop")
	direct := definition.NewResolver(definition.NewProjectConfig(definition.Options{Source: source}))
	require.Equal(t, "develop", git.TargetBranch(direct.Resolve("x"), source))

	pinned := definition.NewResolver(definition.NewProjectConfig(definition.Options{Source: source, MatchBranches: true}))
	target := pinned.Resolve("origin/x")
	require.Equal(t, "origin/x", git.TargetBranch(target, target.Source.(*scm.GitSource)))
}
