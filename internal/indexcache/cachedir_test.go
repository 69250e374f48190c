package indexcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheFilePathHonorsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CODE_INDEX_CACHE_DIR", dir)

	path, err := CacheFilePath("/some/project/root")
	require.NoError(t, err)
	require.Equal(t, dir, filepath.Dir(path))
}

func TestCacheFilePathIsStableForSameRoot(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CODE_INDEX_CACHE_DIR", dir)

	a, err := CacheFilePath("/project/a")
	require.NoError(t, err)
	b, err := CacheFilePath("/project/a")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCacheFilePathDiffersAcrossRoots(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CODE_INDEX_CACHE_DIR", dir)

	a, err := CacheFilePath("/project/a")
	require.NoError(t, err)
	b, err := CacheFilePath("/project/b")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
