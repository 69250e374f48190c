package indexcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sgi-dev/sgi/internal/grammar"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

func TestEnsureFirstRunParsesEveryFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")
	writeFile(t, root, "b.go", "package a\n\nfunc Bar() { Foo() }\n")

	c := New(root, grammar.NewRegistry(), ProjectConfig{})
	res, err := c.Ensure()
	require.NoError(t, err)
	require.Equal(t, 2, res.Changed)
	require.Equal(t, 2, res.Scanned)
	require.True(t, c.Graph().HasFile("a.go"))
	require.True(t, c.Graph().HasFile("b.go"))
}

func TestEnsureSecondRunWithNoChangesIsNoOp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")

	c := New(root, grammar.NewRegistry(), ProjectConfig{})
	_, err := c.Ensure()
	require.NoError(t, err)

	res, err := c.Ensure()
	require.NoError(t, err)
	require.Equal(t, 0, res.Changed)
	require.Equal(t, 0, res.Deleted)
}

func TestEnsureDetectsModifiedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")

	c := New(root, grammar.NewRegistry(), ProjectConfig{})
	_, err := c.Ensure()
	require.NoError(t, err)

	// force a distinct mtime.
	time.Sleep(10 * time.Millisecond)
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() { return }\n")
	require.NoError(t, os.Chtimes(filepath.Join(root, "a.go"), time.Now().Add(time.Second), time.Now().Add(time.Second)))

	res, err := c.Ensure()
	require.NoError(t, err)
	require.Equal(t, 1, res.Changed)
}

func TestEnsureDetectsDeletedFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")
	writeFile(t, root, "b.go", "package a\n\nfunc Bar() {}\n")

	c := New(root, grammar.NewRegistry(), ProjectConfig{})
	_, err := c.Ensure()
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "b.go")))

	res, err := c.Ensure()
	require.NoError(t, err)
	require.Equal(t, 1, res.Deleted)
	require.False(t, c.Graph().HasFile("b.go"))
}

func TestEnsureIgnoresVendorDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")
	writeFile(t, root, "vendor/dep.go", "package dep\n\nfunc Dep() {}\n")

	c := New(root, grammar.NewRegistry(), ProjectConfig{})
	res, err := c.Ensure()
	require.NoError(t, err)
	require.Equal(t, 1, res.Scanned)
	require.False(t, c.Graph().HasFile("vendor/dep.go"))
}

func TestEnsureHonorsProjectIgnorePattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")
	writeFile(t, root, "generated/gen.go", "package generated\n\nfunc Gen() {}\n")

	cfg := ProjectConfig{Ignore: []string{"**/generated/**"}}
	c := New(root, grammar.NewRegistry(), cfg)
	res, err := c.Ensure()
	require.NoError(t, err)
	require.Equal(t, 1, res.Scanned)
}

func TestReindexDropsPersistedCacheAndRebuilds(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")

	c := New(root, grammar.NewRegistry(), ProjectConfig{})
	_, err := c.Ensure()
	require.NoError(t, err)

	res, err := c.Reindex()
	require.NoError(t, err)
	require.Equal(t, 1, res.Changed)
	require.True(t, c.Graph().HasFile("a.go"))
}

func TestPersistedGraphSurvivesNewCacheInstance(t *testing.T) {
	root := t.TempDir()
	t.Setenv("CODE_INDEX_CACHE_DIR", t.TempDir())
	writeFile(t, root, "a.go", "package a\n\nfunc Foo() {}\n")

	first := New(root, grammar.NewRegistry(), ProjectConfig{})
	_, err := first.Ensure()
	require.NoError(t, err)

	second := New(root, grammar.NewRegistry(), ProjectConfig{})
	res, err := second.Ensure()
	require.NoError(t, err)
	require.Equal(t, 0, res.Changed)
	require.True(t, second.Graph().HasFile("a.go"))
}

func TestLoadProjectConfigAbsentFileReturnsZeroValue(t *testing.T) {
	root := t.TempDir()
	cfg, err := LoadProjectConfig(root)
	require.NoError(t, err)
	require.Empty(t, cfg.Ignore)
	require.Empty(t, cfg.PathTiers)
}

func TestLoadProjectConfigParsesIgnoreAndPathTiers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".code-index/config.json", `{"ignore": ["**/fixtures/**"], "pathTiers": {"scripts/": 0.5}}`)

	cfg, err := LoadProjectConfig(root)
	require.NoError(t, err)
	require.Equal(t, []string{"**/fixtures/**"}, cfg.Ignore)
	require.Equal(t, 0.5, cfg.PathTiers["scripts/"])
}

func TestMatcherMatchesBuiltinAndProjectPatterns(t *testing.T) {
	m := NewMatcher([]string{"**/fixtures/**"})
	require.True(t, m.Match("node_modules/pkg/index.js"))
	require.True(t, m.Match("fixtures/sample.go"))
	require.False(t, m.Match("internal/query/query.go"))
}
