package outline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgi-dev/sgi/internal/types"
)

const src = `package demo

func Tiny() { return }

func Long() {
	a := 1
	b := 2
	_ = a
	_ = b
}

type Container struct {
	Field int
}
`

func demoDefs() []types.Definition {
	return []types.Definition{
		{Name: "Tiny", Kind: types.KindFunction, File: "demo.go", LineStart: 3, LineEnd: 3},
		{Name: "Long", Kind: types.KindFunction, File: "demo.go", LineStart: 5, LineEnd: 10},
		{Name: "Container", Kind: types.KindType, File: "demo.go", LineStart: 12, LineEnd: 14},
	}
}

func TestRenderCollapsedLeavesShortBodiesIntact(t *testing.T) {
	res := Render(Params{Source: src, Definitions: demoDefs()})
	require.Contains(t, res.Text, "func Tiny() { return }")
}

func TestRenderCollapsedCollapsesMultiLineBody(t *testing.T) {
	res := Render(Params{Source: src, Definitions: demoDefs()})
	require.Contains(t, res.Text, "... (5 lines)")
	require.NotContains(t, res.Text, "_ = a")
}

func TestRenderCollapsedAnnotatesCallerCount(t *testing.T) {
	res := Render(Params{
		Source:       src,
		Definitions:  demoDefs(),
		CallerCounts: map[string]int{"Long": 3},
	})
	require.Contains(t, res.Text, "... (5 lines) ← 3 callers")
}

func TestRenderCollapsedUsesGutterFormat(t *testing.T) {
	res := Render(Params{Source: src, Definitions: demoDefs()})
	require.Contains(t, res.Text, "     1│ package demo")
}

func TestLeafDefinitionsExcludesContainer(t *testing.T) {
	defs := []types.Definition{
		{Name: "Outer", File: "f.go", LineStart: 1, LineEnd: 10},
		{Name: "Inner", File: "f.go", LineStart: 2, LineEnd: 4},
	}
	leaves := leafDefinitions(defs)
	require.Len(t, leaves, 1)
	require.Equal(t, "Inner", leaves[0].Name)
}

func TestLeafDefinitionsKeepsIdenticalRangesAsLeaves(t *testing.T) {
	defs := []types.Definition{
		{Name: "A", File: "f.go", LineStart: 1, LineEnd: 4},
		{Name: "B", File: "f.go", LineStart: 1, LineEnd: 4},
	}
	leaves := leafDefinitions(defs)
	require.Len(t, leaves, 2)
}

func TestRenderExpandedReturnsFullBodyForMatch(t *testing.T) {
	res := Render(Params{
		Source:        src,
		Definitions:   demoDefs(),
		ExpandSymbols: []string{"Long"},
	})
	require.Contains(t, res.Text, "Long:5-10")
	require.Contains(t, res.Text, "_ = b")
	require.Empty(t, res.Suggestions)
}

func TestRenderExpandedSuggestsOnUnmatchedName(t *testing.T) {
	res := Render(Params{
		Source:        src,
		Definitions:   demoDefs(),
		ExpandSymbols: []string{"Tinyy"},
	})
	require.Empty(t, res.Text)
	require.Contains(t, res.Suggestions, "Tiny")
}

func TestRenderExpandedHandlesMultipleNames(t *testing.T) {
	res := Render(Params{
		Source:        src,
		Definitions:   demoDefs(),
		ExpandSymbols: []string{"Tiny", "Container"},
	})
	require.Contains(t, res.Text, "Tiny:3-3")
	require.Contains(t, res.Text, "Container:12-14")
}
