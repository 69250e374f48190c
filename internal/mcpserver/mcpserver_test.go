package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/sgi-dev/sgi/internal/sgi"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	t.Setenv("CODE_INDEX_CACHE_DIR", t.TempDir())

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nfunc Foo() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.go"), []byte("package a\n\nfunc Bar() { Foo() }\n"), 0o644))

	ix, err := sgi.Open(root)
	require.NoError(t, err)
	return New(ix)
}

func request(args map[string]any) *mcp.CallToolRequest {
	data, _ := json.Marshal(args)
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: data}}
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestHandleStatsReportsFileAndSymbolCounts(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleStats(context.Background(), request(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var stats struct {
		Files   int
		Symbols int
	}
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &stats))
	require.Equal(t, 2, stats.Files)
	require.Equal(t, 2, stats.Symbols)
}

func TestHandleSearchFindsMatchingSymbol(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleSearch(context.Background(), request(map[string]any{"query": "Foo"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, textOf(t, res), "Foo")
}

func TestHandleCallersUnknownSymbolStillSucceeds(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleCallers(context.Background(), request(map[string]any{"symbol": "Nope"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
}

func TestHandleOutlineRendersFileStructure(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleOutline(context.Background(), request(map[string]any{"file": "a.go"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, textOf(t, res), "Foo")
}

func TestHandleOutlineUnknownFileReturnsErrorResult(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleOutline(context.Background(), request(map[string]any{"file": "missing.go"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
}

func TestHandleReindexRebuildsIndex(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleReindex(context.Background(), request(nil))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, textOf(t, res), "Changed")
}

func TestJSONResultWrapsDataAsSingleTextContent(t *testing.T) {
	res, err := jsonResult(map[string]int{"n": 1})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.JSONEq(t, `{"n":1}`, textOf(t, res))
}

func TestErrResultMarksIsErrorAndIncludesOperation(t *testing.T) {
	res, err := errResult("stats", require.AnError)
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, textOf(t, res), "stats")
}
