package query

import (
	"strings"

	"github.com/sgi-dev/sgi/internal/graph"
	"github.com/sgi-dev/sgi/internal/types"
)

type SearchParams struct {
	Query string
	Kind  types.SymbolKind // empty: no filter
	Page  Page
}

type SymbolResult struct {
	Key       string
	Name      string
	Kind      types.SymbolKind
	File      string
	LineStart int
	LineEnd   int
	Signature string
	Score     float64
}

type SymbolListResult struct {
	Items []SymbolResult
	Total int
}

// Search is a case-insensitive substring match against name or signature,
// ranked by unfocused PageRank (§4.6 search).
func (e *Engine) Search(p SearchParams) (SymbolListResult, error) {
	if _, err := e.ensure(); err != nil {
		return SymbolListResult{}, err
	}
	snap := e.snapshot()
	ranked := e.Ranker.Rank(snap, nil)
	needle := strings.ToLower(p.Query)

	var matched []SymbolResult
	for _, sc := range ranked {
		sym, ok := e.symbolOf(sc.SymbolKey)
		if !ok {
			continue
		}
		if p.Kind != "" && sym.Kind != p.Kind {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(sym.Name), needle) &&
			!strings.Contains(strings.ToLower(sym.Signature), needle) {
			continue
		}
		matched = append(matched, toSymbolResult(sym, sc.Score))
	}

	page, total := pageSlice(matched, p.Page)
	return SymbolListResult{Items: page, Total: total}, nil
}

type SymbolsParams struct {
	File string // empty: no filter
	Kind types.SymbolKind
	Page Page
}

// Symbols enumerates symbol nodes with optional filters, ranked by
// PageRank (§4.6 symbols).
func (e *Engine) Symbols(p SymbolsParams) (SymbolListResult, error) {
	if _, err := e.ensure(); err != nil {
		return SymbolListResult{}, err
	}
	snap := e.snapshot()
	ranked := e.Ranker.Rank(snap, nil)

	var matched []SymbolResult
	for _, sc := range ranked {
		sym, ok := e.symbolOf(sc.SymbolKey)
		if !ok {
			continue
		}
		if p.File != "" && sym.File != p.File {
			continue
		}
		if p.Kind != "" && sym.Kind != p.Kind {
			continue
		}
		matched = append(matched, toSymbolResult(sym, sc.Score))
	}

	page, total := pageSlice(matched, p.Page)
	return SymbolListResult{Items: page, Total: total}, nil
}

func toSymbolResult(sym *graph.SymbolNode, score float64) SymbolResult {
	return SymbolResult{
		Key: sym.Key, Name: sym.Name, Kind: sym.Kind, File: sym.File,
		LineStart: sym.LineStart, LineEnd: sym.LineEnd,
		Signature: sym.Signature, Score: score,
	}
}
