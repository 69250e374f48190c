package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nfunc Foo() {}\n"), 0o644))
	run("add", "a.go")
	run("commit", "-q", "-m", "initial")
	return dir
}

func TestChangedFilesReportsWorkingTreeDiff(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n\nfunc Foo() { return }\n"), 0o644))

	repo := NewRepo(dir)
	changed, err := repo.ChangedFiles(context.Background(), "HEAD")
	require.NoError(t, err)
	require.Equal(t, []string{"a.go"}, changed)
}

func TestUntrackedFilesListsNewFiles(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package a\n"), 0o644))

	repo := NewRepo(dir)
	untracked, err := repo.UntrackedFiles(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"b.go"}, untracked)
}

func TestShowReturnsCommittedContent(t *testing.T) {
	dir := initRepo(t)
	repo := NewRepo(dir)

	content, err := repo.Show(context.Background(), "HEAD", "a.go")
	require.NoError(t, err)
	require.Contains(t, string(content), "func Foo")
}

func TestLogLinesReturnsCommitForLineRange(t *testing.T) {
	dir := initRepo(t)
	repo := NewRepo(dir)

	lines, err := repo.LogLines(context.Background(), "a.go", 1, 3, 0, 0)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "initial", lines[0].Summary)
	require.NotEmpty(t, lines[0].Hash)
}

func TestShowUnknownRefIsUnavailable(t *testing.T) {
	dir := initRepo(t)
	repo := NewRepo(dir)

	_, err := repo.Show(context.Background(), "not-a-ref", "a.go")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestOperationsOnNonRepoAreUnavailable(t *testing.T) {
	dir := t.TempDir() // no git init
	repo := NewRepo(dir)

	_, err := repo.ChangedFiles(context.Background(), "HEAD")
	require.ErrorIs(t, err, ErrUnavailable)
}
