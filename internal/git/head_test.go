package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadCommit(t *testing.T) {
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	require.NoError(t, os.MkdirAll(filepath.Join(repoPath, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "src", "index.js"), []byte("console.log(1)"), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	hash, err := wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	got, err := HeadCommit(repoPath)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), got)

	// Lookups from a subdirectory find the enclosing repository.
	got, err = HeadCommit(filepath.Join(repoPath, "src"))
	require.NoError(t, err)
	assert.Equal(t, hash.String(), got)
}

func TestHeadCommitNotRepository(t *testing.T) {
	_, err := HeadCommit(t.TempDir())
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestHeadCommitEmptyRepository(t *testing.T) {
	repoPath := t.TempDir()
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	_, err = HeadCommit(repoPath)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRepository)
}
