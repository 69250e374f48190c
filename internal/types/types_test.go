package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSymbolKeyJoinsFileAndName(t *testing.T) {
	d := Definition{Name: "Foo", File: "a.go"}
	require.Equal(t, "a.go::Foo", d.SymbolKey())
}

func TestNormalizeSignatureCollapsesWhitespace(t *testing.T) {
	got := NormalizeSignature("func   Foo(a  int,\tb string)  string", 200)
	require.Equal(t, "func Foo(a int, b string) string", got)
}

func TestNormalizeSignatureTruncatesWithEllipsisAtCap(t *testing.T) {
	long := "func Foo(" + strings.Repeat("a int, ", 50) + ") string"
	got := NormalizeSignature(long, 20)
	require.LessOrEqual(t, len([]rune(got)), 20)
	require.True(t, strings.HasSuffix(got, SignatureEllipsisMarker))
}

func TestNormalizeSignatureShortStringUnchanged(t *testing.T) {
	got := NormalizeSignature("func Foo()", 200)
	require.Equal(t, "func Foo()", got)
}
