package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sgi-dev/sgi/internal/grammar"
)

func newExtractor() *Extractor {
	return New(grammar.NewRegistry())
}

func TestCanHandleKnownAndUnknownExtensions(t *testing.T) {
	e := newExtractor()
	require.True(t, e.CanHandle("main.go"))
	require.False(t, e.CanHandle("main.unknownext"))
}

func TestExtractUnsupportedExtensionReturnsNotOK(t *testing.T) {
	e := newExtractor()
	fs, ok := e.Extract("data.bin", []byte("whatever"))
	require.False(t, ok)
	require.Nil(t, fs)
}

const goSrc = `package demo

import "fmt"

func Greet(name string) string {
	return fmt.Sprintf("hello %s", name)
}

func main() {
	Greet("world")
}
`

func TestExtractGoFileFindsDefinitionsAndReferences(t *testing.T) {
	e := newExtractor()
	fs, ok := e.Extract("demo.go", []byte(goSrc))
	require.True(t, ok)
	require.NotNil(t, fs)

	var names []string
	for _, d := range fs.Definitions {
		names = append(names, d.Name)
	}
	require.Contains(t, names, "Greet")
	require.Contains(t, names, "main")

	var refNames []string
	for _, r := range fs.References {
		refNames = append(refNames, r.Name)
	}
	require.Contains(t, refNames, "Greet")
	require.Contains(t, refNames, "fmt")
}

func TestExtractBuildsBraceSignatureUpToOpenBrace(t *testing.T) {
	e := newExtractor()
	fs, ok := e.Extract("demo.go", []byte(goSrc))
	require.True(t, ok)

	var greet *string
	for _, d := range fs.Definitions {
		if d.Name == "Greet" {
			greet = &d.Signature
		}
	}
	require.NotNil(t, greet)
	require.Equal(t, "func Greet(name string) string", *greet)
}

const pySrc = `def greet(name: str) -> str:
    return "hello " + name
`

func TestExtractPythonUsesIndentationSignature(t *testing.T) {
	e := newExtractor()
	fs, ok := e.Extract("demo.py", []byte(pySrc))
	require.True(t, ok)
	require.Len(t, fs.Definitions, 1)
	require.Equal(t, "greet", fs.Definitions[0].Name)
	require.Equal(t, "def greet(name: str) -> str:", fs.Definitions[0].Signature)
}

func TestExtractEmptySourceYieldsNoDefinitions(t *testing.T) {
	e := newExtractor()
	fs, ok := e.Extract("empty.go", []byte(""))
	require.True(t, ok)
	require.Empty(t, fs.Definitions)
}

func TestCleanReferenceNameStripsQuotesAndTakesLastSegment(t *testing.T) {
	require.Equal(t, "fmt", cleanReferenceName(`"fmt"`))
	require.Equal(t, "sprintf", cleanReferenceName(`"github.com/foo/sprintf"`))
	require.Equal(t, "", cleanReferenceName(`""`))
}
