package query

import (
	"fmt"
	"strings"

	"github.com/sgi-dev/sgi/internal/types"
)

type MapParams struct {
	FocusFiles []string
	Structured bool
	Page       Page
}

type MapSymbol struct {
	Name      string
	Kind      types.SymbolKind
	LineStart int
	LineEnd   int
	Signature string
}

type MapFileGroup struct {
	File    string
	Symbols []MapSymbol
}

type MapResult struct {
	Text          string
	Structured    []MapFileGroup
	ShownFiles    int
	ShownSymbols  int
	TotalFiles    int
	TotalSymbols  int
}

// Map returns, in rank order, the symbols of the repository (§4.6 map).
func (e *Engine) Map(p MapParams) (MapResult, error) {
	if _, err := e.ensure(); err != nil {
		return MapResult{}, err
	}
	snap := e.snapshot()
	ranked := e.Ranker.Rank(snap, p.FocusFiles)

	totalFiles := len(snap.Files)
	totalSymbols := len(ranked)

	page, _ := pageSlice(ranked, p.Page)
	if p.Page.Count {
		return MapResult{TotalFiles: totalFiles, TotalSymbols: totalSymbols}, nil
	}

	var order []string
	groups := make(map[string]*MapFileGroup)
	for _, sc := range page {
		sym, ok := e.symbolOf(sc.SymbolKey)
		if !ok {
			continue
		}
		g, ok := groups[sym.File]
		if !ok {
			g = &MapFileGroup{File: sym.File}
			groups[sym.File] = g
			order = append(order, sym.File)
		}
		g.Symbols = append(g.Symbols, MapSymbol{
			Name: sym.Name, Kind: sym.Kind,
			LineStart: sym.LineStart, LineEnd: sym.LineEnd,
			Signature: sym.Signature,
		})
	}

	result := MapResult{
		ShownFiles:   len(order),
		ShownSymbols: len(page),
		TotalFiles:   totalFiles,
		TotalSymbols: totalSymbols,
	}
	for _, f := range order {
		result.Structured = append(result.Structured, *groups[f])
	}

	if !p.Structured {
		var sb strings.Builder
		for _, g := range result.Structured {
			sb.WriteString(g.File)
			sb.WriteByte('\n')
			for _, s := range g.Symbols {
				fmt.Fprintf(&sb, "  %4d│ %s\n", s.LineStart, s.Signature)
			}
		}
		result.Text = sb.String()
	}
	return result, nil
}
