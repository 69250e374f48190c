package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveKnownExtensionReturnsCompiledGrammar(t *testing.T) {
	r := NewRegistry()
	g, ok := r.Resolve(".go")
	require.True(t, ok)
	require.Equal(t, "go", g.LanguageID)
	require.NotNil(t, g.Language)
	require.NotNil(t, g.DefQuery)
	require.NotNil(t, g.RefQuery)
	require.NotNil(t, g.KindOf)
}

func TestResolveUnknownExtensionReturnsNotOK(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Resolve(".zzz")
	require.False(t, ok)
}

func TestResolveCachesGrammarAcrossCalls(t *testing.T) {
	r := NewRegistry()
	first, ok := r.Resolve(".go")
	require.True(t, ok)
	second, ok := r.Resolve(".go")
	require.True(t, ok)
	require.Same(t, first, second)
}

func TestExtensionsListsEveryRegisteredLanguage(t *testing.T) {
	r := NewRegistry()
	exts := r.Extensions()
	require.Contains(t, exts, ".go")
	require.Contains(t, exts, ".py")
	require.Contains(t, exts, ".rs")
	require.Contains(t, exts, ".ts")
}

func TestKindOfMapsGoDeclarationNodeTypes(t *testing.T) {
	r := NewRegistry()
	g, ok := r.Resolve(".go")
	require.True(t, ok)
	require.Equal(t, "function", string(g.KindOf("function_declaration")))
	require.Equal(t, "type", string(g.KindOf("type_spec")))
	require.Equal(t, "variable", string(g.KindOf("const_spec")))
}
