package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sgi-dev/sgi/internal/query"
	"github.com/sgi-dev/sgi/internal/types"
)

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "map",
		Description: "Ranked overview of the project's files and symbols, optionally focused on a set of files.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: mergeSchema(pageSchema(), map[string]*jsonschema.Schema{
				"focusFiles": {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Files to bias ranking toward"},
				"structured": {Type: "boolean", Description: "Return grouped structured data instead of text"},
			}),
		},
	}, s.handleMap)

	s.server.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Case-insensitive substring search over symbol names and signatures, ranked by PageRank.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: mergeSchema(pageSchema(), map[string]*jsonschema.Schema{
				"query": {Type: "string", Description: "Substring to search for"},
				"kind":  {Type: "string", Description: "Optional symbol kind filter: function, class, type, variable, namespace, other"},
			}),
			Required: []string{"query"},
		},
	}, s.handleSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        "symbols",
		Description: "List symbol nodes, optionally filtered by file and/or kind, ranked by PageRank.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: mergeSchema(pageSchema(), map[string]*jsonschema.Schema{
				"file": {Type: "string", Description: "Restrict to symbols defined in this file"},
				"kind": {Type: "string", Description: "Optional symbol kind filter"},
			}),
		},
	}, s.handleSymbols)

	s.server.AddTool(&mcp.Tool{
		Name:        "callers",
		Description: "Files and call sites that reference a symbol by name.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: mergeSchema(pageSchema(), map[string]*jsonschema.Schema{
				"symbol":  {Type: "string", Description: "Symbol name to find callers of"},
				"file":    {Type: "string", Description: "Narrow to the definition in this file"},
				"context": {Type: "integer", Description: "Lines of context around each call site; 0 for none"},
			}),
			Required: []string{"symbol"},
		},
	}, s.handleCallers)

	s.server.AddTool(&mcp.Tool{
		Name:        "dependencies",
		Description: "Files this file imports, ranked by file-level PageRank.",
		InputSchema: fileParamSchema(),
	}, s.handleDependencies)

	s.server.AddTool(&mcp.Tool{
		Name:        "dependents",
		Description: "Files that import this file, ranked by file-level PageRank.",
		InputSchema: fileParamSchema(),
	}, s.handleDependents)

	s.server.AddTool(&mcp.Tool{
		Name:        "neighborhood",
		Description: "BFS-reachable files around a starting file on import edges, capped at maxFiles.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":              {Type: "string", Description: "Starting file"},
				"hops":              {Type: "integer", Description: "Max BFS depth, default 2"},
				"includeDependents": {Type: "boolean", Description: "Also include direct dependents, not just imports"},
				"maxFiles":          {Type: "integer", Description: "Max files to return, default 15"},
				"count":             {Type: "boolean", Description: "If true, return only totals"},
			},
			Required: []string{"file"},
		},
	}, s.handleNeighborhood)

	s.server.AddTool(&mcp.Tool{
		Name:        "orphans",
		Description: "Files with no import edges, or symbols with no external references, after excluding known false positives.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: mergeSchema(pageSchema(), map[string]*jsonschema.Schema{
				"level": {Type: "string", Description: "\"file\" or \"symbol\", default \"file\""},
			}),
		},
	}, s.handleOrphans)

	s.server.AddTool(&mcp.Tool{
		Name:        "context",
		Description: "Resolves a symbol and reports the symbols it uses, type previews, and files that call it.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol": {Type: "string", Description: "Symbol name"},
				"file":   {Type: "string", Description: "Narrow to the definition in this file"},
			},
			Required: []string{"symbol"},
		},
	}, s.handleContext)

	s.server.AddTool(&mcp.Tool{
		Name:        "trace",
		Description: "Walks upward from a symbol through its callers, building a call tree capped at depth hops.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol": {Type: "string", Description: "Symbol name"},
				"file":   {Type: "string", Description: "Narrow to the definition in this file"},
				"depth":  {Type: "integer", Description: "Max hops upward, default 3"},
			},
			Required: []string{"symbol"},
		},
	}, s.handleTrace)

	s.server.AddTool(&mcp.Tool{
		Name:        "diff",
		Description: "Compares the working tree against a git ref, classifying added/removed/modified definitions and ranking by external caller count.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{"ref": {Type: "string", Description: "Git ref to diff against, default HEAD"}},
		},
	}, s.handleDiff)

	s.server.AddTool(&mcp.Tool{
		Name:        "history",
		Description: "Commit history for a symbol's line range, or an explicit file+line range.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":      {Type: "string", Description: "File path"},
				"symbol":    {Type: "string", Description: "Symbol name; resolves to its line range within file"},
				"lineStart": {Type: "integer"},
				"lineEnd":   {Type: "integer"},
				"skip":      {Type: "integer", Description: "Commits to skip"},
				"limit":     {Type: "integer", Description: "Max commits to return"},
			},
		},
	}, s.handleHistory)

	s.server.AddTool(&mcp.Tool{
		Name:        "outline",
		Description: "Renders a file's structure with leaf definition bodies collapsed, or the full text of named symbols when expandSymbols is given.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file":             {Type: "string", Description: "File path, relative to the project root"},
				"expandSymbols":    {Type: "array", Items: &jsonschema.Schema{Type: "string"}, Description: "Symbol names to print in full instead of collapsing"},
				"withCallerCounts": {Type: "boolean", Description: "Annotate collapsed bodies with external caller counts"},
			},
			Required: []string{"file"},
		},
	}, s.handleOutline)

	s.server.AddTool(&mcp.Tool{
		Name:        "reindex",
		Description: "Discards the persisted index and rebuilds it from scratch.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleReindex)

	s.server.AddTool(&mcp.Tool{
		Name:        "stats",
		Description: "File and symbol counts for the current index.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleStats)
}

func mergeSchema(base, extra map[string]*jsonschema.Schema) map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func fileParamSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: mergeSchema(pageSchema(), map[string]*jsonschema.Schema{"file": {Type: "string", Description: "File path"}}),
		Required:   []string{"file"},
	}
}

func unmarshalArgs(req *mcp.CallToolRequest, v any) error {
	return json.Unmarshal(req.Params.Arguments, v)
}

func (s *Server) handleMap(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		FocusFiles []string `json:"focusFiles"`
		Structured bool     `json:"structured"`
		Offset     int      `json:"offset"`
		Limit      int      `json:"limit"`
		Count      bool     `json:"count"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("map", err)
	}
	res, err := s.engine().Map(query.MapParams{
		FocusFiles: args.FocusFiles,
		Structured: args.Structured,
		Page:       query.Page{Offset: args.Offset, Limit: args.Limit, Count: args.Count},
	})
	if err != nil {
		return errResult("map", err)
	}
	return jsonResult(res)
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Query  string `json:"query"`
		Kind   string `json:"kind"`
		Offset int    `json:"offset"`
		Limit  int    `json:"limit"`
		Count  bool   `json:"count"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("search", err)
	}
	res, err := s.engine().Search(query.SearchParams{
		Query: args.Query,
		Kind:  types.SymbolKind(args.Kind),
		Page:  query.Page{Offset: args.Offset, Limit: args.Limit, Count: args.Count},
	})
	if err != nil {
		return errResult("search", err)
	}
	return jsonResult(res)
}

func (s *Server) handleSymbols(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		File   string `json:"file"`
		Kind   string `json:"kind"`
		Offset int    `json:"offset"`
		Limit  int    `json:"limit"`
		Count  bool   `json:"count"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("symbols", err)
	}
	res, err := s.engine().Symbols(query.SymbolsParams{
		File: args.File,
		Kind: types.SymbolKind(args.Kind),
		Page: query.Page{Offset: args.Offset, Limit: args.Limit, Count: args.Count},
	})
	if err != nil {
		return errResult("symbols", err)
	}
	return jsonResult(res)
}

func (s *Server) handleCallers(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Symbol  string `json:"symbol"`
		File    string `json:"file"`
		Context int    `json:"context"`
		Offset  int    `json:"offset"`
		Limit   int    `json:"limit"`
		Count   bool   `json:"count"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("callers", err)
	}
	res, err := s.engine().Callers(query.CallerParams{
		Symbol:  args.Symbol,
		File:    args.File,
		Context: args.Context,
		Page:    query.Page{Offset: args.Offset, Limit: args.Limit, Count: args.Count},
	})
	if err != nil {
		return errResult("callers", err)
	}
	return jsonResult(res)
}

func fileParamsFrom(req *mcp.CallToolRequest) (query.FileParams, error) {
	var args struct {
		File   string `json:"file"`
		Offset int    `json:"offset"`
		Limit  int    `json:"limit"`
		Count  bool   `json:"count"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return query.FileParams{}, err
	}
	return query.FileParams{File: args.File, Page: query.Page{Offset: args.Offset, Limit: args.Limit, Count: args.Count}}, nil
}

func (s *Server) handleDependencies(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := fileParamsFrom(req)
	if err != nil {
		return errResult("dependencies", err)
	}
	res, err := s.engine().Dependencies(p)
	if err != nil {
		return errResult("dependencies", err)
	}
	return jsonResult(res)
}

func (s *Server) handleDependents(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := fileParamsFrom(req)
	if err != nil {
		return errResult("dependents", err)
	}
	res, err := s.engine().Dependents(p)
	if err != nil {
		return errResult("dependents", err)
	}
	return jsonResult(res)
}

func (s *Server) handleNeighborhood(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		File              string `json:"file"`
		Hops              int    `json:"hops"`
		IncludeDependents bool   `json:"includeDependents"`
		MaxFiles          int    `json:"maxFiles"`
		Count             bool   `json:"count"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("neighborhood", err)
	}
	res, err := s.engine().Neighborhood(query.NeighborhoodParams{
		File:              args.File,
		Hops:              args.Hops,
		IncludeDependents: args.IncludeDependents,
		MaxFiles:          args.MaxFiles,
		Count:             args.Count,
	})
	if err != nil {
		return errResult("neighborhood", err)
	}
	return jsonResult(res)
}

func (s *Server) handleOrphans(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Level  string `json:"level"`
		Offset int    `json:"offset"`
		Limit  int    `json:"limit"`
		Count  bool   `json:"count"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("orphans", err)
	}
	res, err := s.engine().Orphans(query.OrphansParams{
		Level: query.OrphanLevel(args.Level),
		Page:  query.Page{Offset: args.Offset, Limit: args.Limit, Count: args.Count},
	})
	if err != nil {
		return errResult("orphans", err)
	}
	return jsonResult(res)
}

func (s *Server) handleContext(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Symbol string `json:"symbol"`
		File   string `json:"file"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("context", err)
	}
	res, err := s.engine().Context(query.ContextParams{Symbol: args.Symbol, File: args.File})
	if err != nil {
		return errResult("context", err)
	}
	return jsonResult(res)
}

func (s *Server) handleTrace(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Symbol string `json:"symbol"`
		File   string `json:"file"`
		Depth  int    `json:"depth"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("trace", err)
	}
	res, err := s.engine().Trace(query.TraceParams{Symbol: args.Symbol, File: args.File, Depth: args.Depth})
	if err != nil {
		return errResult("trace", err)
	}
	return jsonResult(res)
}

func (s *Server) handleDiff(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Ref string `json:"ref"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("diff", err)
	}
	res, err := s.engine().Diff(ctx, query.DiffParams{Ref: args.Ref})
	if err != nil {
		return errResult("diff", err)
	}
	return jsonResult(res)
}

func (s *Server) handleHistory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		File      string `json:"file"`
		Symbol    string `json:"symbol"`
		LineStart int    `json:"lineStart"`
		LineEnd   int    `json:"lineEnd"`
		Skip      int    `json:"skip"`
		Limit     int    `json:"limit"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("history", err)
	}
	res, err := s.engine().History(ctx, query.HistoryParams{
		File: args.File, Symbol: args.Symbol,
		LineStart: args.LineStart, LineEnd: args.LineEnd,
		Skip: args.Skip, Limit: args.Limit,
	})
	if err != nil {
		return errResult("history", err)
	}
	return jsonResult(res)
}

func (s *Server) handleOutline(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		File             string   `json:"file"`
		ExpandSymbols    []string `json:"expandSymbols"`
		WithCallerCounts bool     `json:"withCallerCounts"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return errResult("outline", err)
	}
	res, err := s.ix.Outline(args.File, args.ExpandSymbols, args.WithCallerCounts)
	if err != nil {
		return errResult("outline", err)
	}
	return jsonResult(res)
}

func (s *Server) handleReindex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.ix.Reindex()
	if err != nil {
		return errResult("reindex", err)
	}
	return jsonResult(res)
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.ix.Stats()
	if err != nil {
		return errResult("stats", err)
	}
	return jsonResult(res)
}
