package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	err := Init(context.Background(), dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	assert.False(t, IsRepo(ctx, dir), "empty dir should not be a repo")

	require.NoError(t, Init(ctx, dir))
	assert.True(t, IsRepo(ctx, dir), "initialized dir should be a repo")

	sub := filepath.Join(dir, "output")
	require.NoError(t, os.Mkdir(sub, 0o755))
	assert.True(t, IsRepo(ctx, sub), "subdirectory should be inside the repo")
}

func TestCommitPaths(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "chart.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("notes"), 0o644))

	hash, err := CommitPaths(ctx, dir, []string{filepath.Join(dir, "chart.png")}, "render: 1 chart", testAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	// Verify commit message and author.
	log := exec.Command("git", "log", "--format=%s|%an <%ae>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Equal(t, "render: 1 chart|Test Author <test@example.com>\n", string(out))

	// Only the named path is committed.
	files := exec.Command("git", "ls-files")
	files.Dir = dir
	out, err = files.Output()
	require.NoError(t, err)
	assert.Equal(t, "chart.png\n", string(out))
}

func TestCommitPaths_RelativeToSubdir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	project := filepath.Join(dir, "graphs")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "output"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "output", "a.png"), []byte("a"), 0o644))

	_, err := CommitPaths(ctx, project, []string{filepath.Join("output", "a.png")}, "add a", testAuthor)
	require.NoError(t, err)

	files := exec.Command("git", "ls-files")
	files.Dir = dir
	out, err := files.Output()
	require.NoError(t, err)
	assert.Equal(t, "graphs/output/a.png\n", string(out))
}

func TestCommitPaths_NothingToCommit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	path := filepath.Join(dir, "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	_, err := CommitPaths(ctx, dir, []string{path}, "first", testAuthor)
	require.NoError(t, err)

	// Rewriting identical bytes leaves nothing staged.
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))
	_, err = CommitPaths(ctx, dir, []string{path}, "second", testAuthor)
	assert.ErrorIs(t, err, ErrNothingToCommit)

	_, err = CommitPaths(ctx, dir, nil, "empty", testAuthor)
	assert.ErrorIs(t, err, ErrNothingToCommit)
}

func TestCommitPaths_NotARepo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	_, err := CommitPaths(context.Background(), dir, []string{path}, "msg", testAuthor)
	assert.Error(t, err)
}
