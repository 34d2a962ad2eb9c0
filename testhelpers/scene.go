package testhelpers

import (
	"sort"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewSceneParallel creates a new test scene in a t.TempDir(). It never
// changes the working directory, so it is safe in parallel tests.
func NewSceneParallel(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir := t.TempDir()
	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  tmpDir,
		Repo: repo,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// BranchFiles maps branch names to the files committed on that branch.
type BranchFiles map[string]map[string]string

// BranchesSetup returns a setup function that creates each branch from
// master and commits its files. Files listed under "master" are committed
// first, so every other branch starts from them.
func BranchesSetup(branches BranchFiles) SceneSetup {
	return func(scene *Scene) error {
		if err := scene.Repo.CommitFiles("master", branches["master"]); err != nil {
			return err
		}

		names := make([]string, 0, len(branches))
		for name := range branches {
			if name != "master" {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		for _, name := range names {
			if err := scene.Repo.CheckoutBranch("master"); err != nil {
				return err
			}
			if err := scene.Repo.CreateAndCheckoutBranch(name); err != nil {
				return err
			}
			if err := scene.Repo.CommitFiles(name, branches[name]); err != nil {
				return err
			}
		}
		return scene.Repo.CheckoutBranch("master")
	}
}
