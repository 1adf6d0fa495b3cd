package gitlib

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, string) {
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)

	_, err = wt.Add("Dockerfile")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "ci", Email: "ci@example.com", When: time.Unix(0, 0)},
	})
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:linecard/samlstack.git"},
	})
	require.NoError(t, err)

	return dir, hash.String()
}

func TestFromDir(t *testing.T) {
	dir, sha := initRepo(t)

	nested := filepath.Join(dir, "backend", "src")
	require.NoError(t, os.MkdirAll(nested, os.ModePerm))

	got, err := FromDir(nested)
	assert.NoError(t, err)
	assert.Equal(t, sha, got.Sha)
	assert.Equal(t, dir, got.Root)
	assert.Equal(t, "https://github.com/linecard/samlstack.git", got.Origin.String())
	assert.False(t, got.Dirty)
}

func TestFromDirDirty(t *testing.T) {
	dir, _ := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM alpine\n"), 0644))

	got, err := FromDir(dir)
	assert.NoError(t, err)
	assert.True(t, got.Dirty)
}

func TestFromDirOutsideRepository(t *testing.T) {
	_, err := FromDir(t.TempDir())
	assert.Error(t, err)
}
