package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T, messages ...string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for i, msg := range messages {
		file := filepath.Join(dir, "file.txt")
		require.NoError(t, os.WriteFile(file, []byte(msg), 0o644))
		_, err = wt.Add("file.txt")
		require.NoError(t, err)
		_, err = wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{
				Name:  "Tester",
				Email: "tester@example.com",
				When:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
			},
		})
		require.NoError(t, err)
	}
	return dir
}

func TestGitLog_ReturnsRecentCommits(t *testing.T) {
	dir := initRepo(t, "first commit", "second commit")

	out, err := New(dir).Execute(context.Background(), map[string]any{})
	require.NoError(t, err)

	commits := out.([]Commit)
	require.Len(t, commits, 2)
	// Newest first.
	assert.Equal(t, "second commit", commits[0].Message)
	assert.Equal(t, "first commit", commits[1].Message)
	assert.Equal(t, "Tester", commits[0].Author)
	assert.Len(t, commits[0].Hash, 12)
}

func TestGitLog_HonorsLimit(t *testing.T) {
	dir := initRepo(t, "one", "two", "three")

	out, err := New(dir).Execute(context.Background(), map[string]any{"limit": 2})
	require.NoError(t, err)

	assert.Len(t, out.([]Commit), 2)
}

func TestGitLog_SubdirectoryFindsRepo(t *testing.T) {
	dir := initRepo(t, "only commit")
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	out, err := New(sub).Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Len(t, out.([]Commit), 1)
}

func TestGitLog_NoRepository(t *testing.T) {
	_, err := New(t.TempDir()).Execute(context.Background(), map[string]any{})
	require.Error(t, err)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "subject", firstLine("subject\n\nbody text"))
	assert.Equal(t, "no newline", firstLine("no newline"))
}
