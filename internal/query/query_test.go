package query_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgi-dev/sgi/internal/grammar"
	"github.com/sgi-dev/sgi/internal/indexcache"
	"github.com/sgi-dev/sgi/internal/query"
	"github.com/sgi-dev/sgi/internal/rank"
)

// newEngine builds a query engine over a fresh temp project with files
// written to it, exercising the real grammar/extract/graph/rank stack
// rather than a synthetic graph.
func newEngine(t *testing.T, files map[string]string) (*query.Engine, string) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		abs := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	}

	registry := grammar.NewRegistry()
	cache := indexcache.New(root, registry, indexcache.ProjectConfig{})
	ranker := rank.New(cache.PathTiers())
	return query.New(root, cache, ranker, nil), root
}

const libSrc = `package lib

func Helper() int {
	return 42
}
`

const mainSrc = `package main

func main() {
	Helper()
}
`

func fixture() map[string]string {
	return map[string]string{
		"lib.go":  libSrc,
		"main.go": mainSrc,
	}
}

func TestMapReportsTotalsAndText(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Map(query.MapParams{})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalFiles)
	require.Equal(t, 2, res.TotalSymbols)
	require.NotEmpty(t, res.Text)
}

func TestMapCountModeReturnsNoItems(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Map(query.MapParams{Page: query.Page{Count: true}})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalFiles)
	require.Nil(t, res.Structured)
}

func TestSearchMatchesSubstringCaseInsensitive(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Search(query.SearchParams{Query: "help"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, "Helper", res.Items[0].Name)
}

func TestSearchNoMatchReturnsEmpty(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Search(query.SearchParams{Query: "zzzznotfound"})
	require.NoError(t, err)
	require.Empty(t, res.Items)
}

func TestSymbolsFiltersByFile(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Symbols(query.SymbolsParams{File: "lib.go"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	require.Equal(t, "Helper", res.Items[0].Name)
}

func TestCallersFindsCallingFile(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Callers(query.CallerParams{Symbol: "Helper"})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	require.Equal(t, "main.go", res.Files[0].File)
}

func TestCallersUnknownSymbolReturnsSuggestions(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Callers(query.CallerParams{Symbol: "Helpr"})
	require.NoError(t, err)
	require.Empty(t, res.Files)
	require.Contains(t, res.Suggestions, "Helper")
}

func TestDependenciesAndDependents(t *testing.T) {
	e, _ := newEngine(t, fixture())

	deps, err := e.Dependencies(query.FileParams{File: "main.go"})
	require.NoError(t, err)
	require.Len(t, deps.Items, 1)
	require.Equal(t, "lib.go", deps.Items[0].File)

	dependents, err := e.Dependents(query.FileParams{File: "lib.go"})
	require.NoError(t, err)
	require.Len(t, dependents.Items, 1)
	require.Equal(t, "main.go", dependents.Items[0].File)
}

func TestDependenciesUnknownFileReturnsNotFoundWithSuggestion(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Dependencies(query.FileParams{File: "mian.go"})
	require.NoError(t, err)
	require.True(t, res.NotFound)
	require.Contains(t, res.Suggestions, "main.go")
}

func TestNeighborhoodIncludesDirectImport(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Neighborhood(query.NeighborhoodParams{File: "main.go"})
	require.NoError(t, err)
	require.Contains(t, res.Files, "main.go")
	require.Contains(t, res.Files, "lib.go")
}

func TestOrphansFileLevelExcludesConnectedFiles(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Orphans(query.OrphansParams{})
	require.NoError(t, err)
	for _, f := range res.Files {
		require.NotEqual(t, "main.go", f.File)
		require.NotEqual(t, "lib.go", f.File)
	}
}

func TestOrphansFlagsTrulyIsolatedFile(t *testing.T) {
	files := fixture()
	files["isolated.go"] = "package isolated\n\nfunc Standalone() {}\n"
	e, _ := newEngine(t, files)

	res, err := e.Orphans(query.OrphansParams{})
	require.NoError(t, err)
	var names []string
	for _, f := range res.Files {
		names = append(names, f.File)
	}
	require.Contains(t, names, "isolated.go")
}

func TestContextResolvesSymbolAndCallerFiles(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Context(query.ContextParams{Symbol: "Helper"})
	require.NoError(t, err)
	require.Equal(t, "Helper", res.Target.Name)
	require.Contains(t, res.CallerFiles, "main.go")
}

func TestTraceWalksUpwardFromSymbol(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Trace(query.TraceParams{Symbol: "Helper"})
	require.NoError(t, err)
	require.NotNil(t, res.Root)
	require.Equal(t, "Helper", res.Root.Name)
	require.NotEmpty(t, res.Root.Children)
}

func TestDiffWithoutRepoReportsUnavailable(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.Diff(context.Background(), query.DiffParams{})
	require.NoError(t, err)
	require.True(t, res.Unavailable)
}

func TestHistoryWithoutRepoReportsUnavailable(t *testing.T) {
	e, _ := newEngine(t, fixture())
	res, err := e.History(context.Background(), query.HistoryParams{File: "main.go"})
	require.NoError(t, err)
	require.True(t, res.Unavailable)
}

func TestPaginationOffsetAndLimit(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 5; i++ {
		name := string(rune('a' + i))
		files[name+".go"] = "package " + name + "\n\nfunc F" + name + "() {}\n"
	}
	e, _ := newEngine(t, files)

	res, err := e.Symbols(query.SymbolsParams{Page: query.Page{Offset: 2, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	require.Equal(t, 5, res.Total)
}
