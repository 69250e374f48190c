// Package mcpserver exposes the query engine and outline renderer over MCP
// stdio, one tool per operator. Grounded on the teacher's internal/mcp
// server: mcp.NewServer + AddTool + stdio transport, with arguments
// unmarshaled from the raw request JSON rather than the SDK's generic
// binding, and JSON results wrapped in a single TextContent block.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgi-dev/sgi/internal/query"
	"github.com/sgi-dev/sgi/internal/sgi"
)

// Server wraps one indexing session as an MCP tool provider.
type Server struct {
	ix     *sgi.Index
	server *mcp.Server
}

// New builds the MCP server and registers every tool. Nothing is scanned
// yet; the first tool call runs the query engine's usual ensure preamble.
func New(ix *sgi.Index) *Server {
	s := &Server{
		ix: ix,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "sgi-mcp-server",
			Version: "0.1.0",
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves the registered tools over stdio until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(content)}}}, nil
}

func errResult(op string, err error) (*mcp.CallToolResult, error) {
	content, _ := json.Marshal(map[string]string{"error": err.Error(), "operation": op})
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
		IsError: true,
	}, nil
}

func pageSchema() map[string]*jsonschema.Schema {
	return map[string]*jsonschema.Schema{
		"offset": {Type: "integer", Description: "Pagination offset"},
		"limit":  {Type: "integer", Description: "Max items to return"},
		"count":  {Type: "boolean", Description: "If true, return only the total count"},
	}
}

func (s *Server) engine() *query.Engine { return s.ix.Query }
