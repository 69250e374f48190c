package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgi-dev/sgi/internal/types"
)

func defRec(file string, defs []types.Definition, refs []types.Reference) types.FileSymbols {
	return types.FileSymbols{File: file, Definitions: defs, References: refs}
}

func def(file, name string, kind types.SymbolKind) types.Definition {
	return types.Definition{Name: name, Kind: kind, File: file, LineStart: 1, LineEnd: 5, Signature: name + "()"}
}

func TestBuildWiresDefinesReferencesImports(t *testing.T) {
	records := []types.FileSymbols{
		defRec("a.go", []types.Definition{def("a.go", "Foo", types.KindFunction)}, nil),
		defRec("b.go", []types.Definition{def("b.go", "Bar", types.KindFunction)},
			[]types.Reference{{Name: "Foo", File: "b.go", Line: 3}}),
	}
	g := Build(records)

	require.True(t, g.HasFile("a.go"))
	require.True(t, g.HasFile("b.go"))
	require.ElementsMatch(t, []string{"a.go::Foo"}, g.SymbolsOfFile("a.go"))
	require.ElementsMatch(t, []string{"a.go::Foo"}, g.ReferencesFrom("b.go"))
	require.ElementsMatch(t, []string{"b.go"}, g.ReferencersOf("a.go::Foo"))
	require.ElementsMatch(t, []string{"a.go"}, g.ImportsFrom("b.go"))
	require.ElementsMatch(t, []string{"b.go"}, g.ImportedBy("a.go"))
}

func TestResolveExactMatchWiresToSoleCandidate(t *testing.T) {
	nameIndex := map[string][]string{"Foo": {"a.go::Foo"}}
	symbols := map[string]*SymbolNode{"a.go::Foo": {Key: "a.go::Foo", Name: "Foo", File: "a.go"}}
	got := resolve("Foo", "b.go", nameIndex, symbols, AmbiguityCap)
	require.Equal(t, []string{"a.go::Foo"}, got)
}

func TestResolveSameFileWinsOverCrossFile(t *testing.T) {
	nameIndex := map[string][]string{"Foo": {"a.go::Foo", "b.go::Foo"}}
	symbols := map[string]*SymbolNode{
		"a.go::Foo": {Key: "a.go::Foo", Name: "Foo", File: "a.go"},
		"b.go::Foo": {Key: "b.go::Foo", Name: "Foo", File: "b.go"},
	}
	got := resolve("Foo", "b.go", nameIndex, symbols, AmbiguityCap)
	require.Equal(t, []string{"b.go::Foo"}, got)
}

func TestResolveAmbiguityCapDropsWithNoSameFileWinner(t *testing.T) {
	nameIndex := map[string][]string{}
	symbols := map[string]*SymbolNode{}
	var candidates []string
	for i := 0; i < AmbiguityCap+1; i++ {
		file := string(rune('a' + i))
		key := file + "::Foo"
		candidates = append(candidates, key)
		symbols[key] = &SymbolNode{Key: key, Name: "Foo", File: file}
	}
	nameIndex["Foo"] = candidates

	got := resolve("Foo", "z.go", nameIndex, symbols, AmbiguityCap)
	require.Nil(t, got)
}

func TestResolveWithinCapAmbiguityWiresToAll(t *testing.T) {
	nameIndex := map[string][]string{"Foo": {"a.go::Foo", "b.go::Foo"}}
	symbols := map[string]*SymbolNode{
		"a.go::Foo": {Key: "a.go::Foo", Name: "Foo", File: "a.go"},
		"b.go::Foo": {Key: "b.go::Foo", Name: "Foo", File: "b.go"},
	}
	got := resolve("Foo", "z.go", nameIndex, symbols, AmbiguityCap)
	require.ElementsMatch(t, []string{"a.go::Foo", "b.go::Foo"}, got)
}

func TestUpdateRemovesFileAndIncidentEdges(t *testing.T) {
	g := Build([]types.FileSymbols{
		defRec("a.go", []types.Definition{def("a.go", "Foo", types.KindFunction)}, nil),
		defRec("b.go", nil, []types.Reference{{Name: "Foo", File: "b.go", Line: 1}}),
	})
	require.ElementsMatch(t, []string{"a.go"}, g.ImportsFrom("b.go"))

	g.Update([]string{"a.go"}, nil)

	require.False(t, g.HasFile("a.go"))
	require.Empty(t, g.ImportsFrom("b.go"))
	require.Empty(t, g.ReferencesFrom("b.go"))
	_, ok := g.Symbol("a.go::Foo")
	require.False(t, ok)
}

func TestUpdateIncrementalReplacesOnlyChangedFiles(t *testing.T) {
	g := Build([]types.FileSymbols{
		defRec("a.go", []types.Definition{def("a.go", "Foo", types.KindFunction)}, nil),
		defRec("b.go", []types.Definition{def("b.go", "Bar", types.KindFunction)}, nil),
	})

	g.Update([]string{"a.go"}, []types.FileSymbols{
		defRec("a.go", []types.Definition{def("a.go", "Renamed", types.KindFunction)}, nil),
	})

	require.True(t, g.HasFile("a.go"))
	require.True(t, g.HasFile("b.go")) // untouched file survives the partial update
	_, hadOld := g.Symbol("a.go::Foo")
	require.False(t, hadOld)
	_, hasNew := g.Symbol("a.go::Renamed")
	require.True(t, hasNew)
}

func TestNoSelfLoopImportsEdge(t *testing.T) {
	g := Build([]types.FileSymbols{
		defRec("a.go", []types.Definition{def("a.go", "Foo", types.KindFunction)},
			[]types.Reference{{Name: "Foo", File: "a.go", Line: 2}}),
	})
	require.Empty(t, g.ImportsFrom("a.go"))
	require.ElementsMatch(t, []string{"a.go"}, g.ReferencersOf("a.go::Foo"))
}

func TestDumpLoadRoundTrip(t *testing.T) {
	g := Build([]types.FileSymbols{
		defRec("a.go", []types.Definition{def("a.go", "Foo", types.KindFunction)}, nil),
		defRec("b.go", []types.Definition{def("b.go", "Bar", types.KindFunction)},
			[]types.Reference{{Name: "Foo", File: "b.go", Line: 1}}),
	})

	reloaded := Load(g.Dump())

	require.Equal(t, g.Files(), reloaded.Files())
	require.Equal(t, g.Symbols(), reloaded.Symbols())
	require.Equal(t, g.ImportsFrom("b.go"), reloaded.ImportsFrom("b.go"))
	require.Equal(t, g.ReferencersOf("a.go::Foo"), reloaded.ReferencersOf("a.go::Foo"))
}

func TestSnapshotIsIndependentOfLiveGraph(t *testing.T) {
	g := Build([]types.FileSymbols{
		defRec("a.go", []types.Definition{def("a.go", "Foo", types.KindFunction)}, nil),
	})
	snap := g.Snapshot()

	g.Update([]string{"a.go"}, nil)

	require.Contains(t, snap.Files, "a.go")
	require.False(t, g.HasFile("a.go"))
}
