package query

import "context"

type HistoryParams struct {
	File      string
	Symbol    string // if set, resolves to that symbol's line range within File
	LineStart int
	LineEnd   int
	Skip      int
	Limit     int
}

type HistoryResult struct {
	FileNotFound
	Entries     []HistoryEntry
	Unavailable bool
}

type HistoryEntry struct {
	Hash    string
	Author  string
	Date    string
	Summary string
}

// History walks the commit history of a line range (symbol, or an explicit
// file+range), via the version-control collaborator's `log -L` (§6).
func (e *Engine) History(ctx context.Context, p HistoryParams) (HistoryResult, error) {
	if e.Repo == nil {
		return HistoryResult{Unavailable: true}, nil
	}
	if _, err := e.ensure(); err != nil {
		return HistoryResult{}, err
	}
	g := e.Cache.Graph()
	snap := e.snapshot()

	start, end := p.LineStart, p.LineEnd
	if p.Symbol != "" {
		candidates := filterByFile(g, g.ByName(p.Symbol), p.File, e)
		if len(candidates) == 0 {
			return HistoryResult{FileNotFound: FileNotFound{NotFound: true, Suggestions: e.suggestSymbolNames(snap, p.Symbol)}}, nil
		}
		sym, _ := e.symbolOf(e.bestByRank(candidates, snap))
		p.File = sym.File
		start, end = sym.LineStart, sym.LineEnd
	}
	if !g.HasFile(p.File) {
		return HistoryResult{FileNotFound: FileNotFound{NotFound: true, Suggestions: suggestFiles(snap.Files, p.File)}}, nil
	}

	lines, err := e.Repo.LogLines(ctx, p.File, start, end, p.Skip, p.Limit)
	if err != nil {
		return HistoryResult{Unavailable: true}, nil
	}
	entries := make([]HistoryEntry, len(lines))
	for i, l := range lines {
		entries[i] = HistoryEntry{Hash: l.Hash, Author: l.Author, Date: l.Date, Summary: l.Summary}
	}
	return HistoryResult{Entries: entries}, nil
}
