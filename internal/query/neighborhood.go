package query

import "sort"

type NeighborhoodParams struct {
	File              string
	Hops              int // default 2
	IncludeDependents bool
	MaxFiles          int // default 15
	Count             bool
}

type NeighborhoodEdge struct {
	From string
	To   string
}

type NeighborhoodResult struct {
	FileNotFound
	Files        []string
	Edges        []NeighborhoodEdge
	Symbols      []SymbolResult
	TotalFiles   int
	TotalSymbols int
	TotalEdges   int
	TotalVisited int
}

// Neighborhood computes the BFS-reachable file set around a starting file
// on IMPORTS edges, scored and capped at maxFiles (§4.6 neighborhood).
func (e *Engine) Neighborhood(p NeighborhoodParams) (NeighborhoodResult, error) {
	if p.Hops <= 0 {
		p.Hops = 2
	}
	if p.MaxFiles <= 0 {
		p.MaxFiles = 15
	}

	if _, err := e.ensure(); err != nil {
		return NeighborhoodResult{}, err
	}
	g := e.Cache.Graph()
	snap := e.snapshot()

	if !g.HasFile(p.File) {
		return NeighborhoodResult{FileNotFound: FileNotFound{NotFound: true, Suggestions: suggestFiles(snap.Files, p.File)}}, nil
	}

	hopOf := map[string]int{p.File: 0}
	frontier := []string{p.File}
	for depth := 1; depth <= p.Hops; depth++ {
		var next []string
		for _, f := range frontier {
			for _, t := range g.ImportsFrom(f) {
				if _, seen := hopOf[t]; !seen {
					hopOf[t] = depth
					next = append(next, t)
				}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}

	directSet := map[string]bool{p.File: true}
	for _, t := range g.ImportsFrom(p.File) {
		directSet[t] = true
	}
	if p.IncludeDependents {
		for _, t := range g.ImportedBy(p.File) {
			directSet[t] = true
			if _, seen := hopOf[t]; !seen {
				hopOf[t] = 1
			}
		}
	}

	filePR := e.Ranker.FileScores(snap)

	type candidate struct {
		file  string
		score float64
	}
	var candidates []candidate
	for f, depth := range hopOf {
		isDirect := directSet[f]
		s := filePR[f]*1e4 - float64(depth)
		if isDirect {
			s += 1e6
		}
		candidates = append(candidates, candidate{file: f, score: s})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].file < candidates[j].file
	})

	totalVisited := len(candidates)

	// candidates is sorted with every direct neighbor first (the +1e6 term
	// dominates), so a single pass keeps all direct neighbors and fills the
	// rest of the maxFiles budget with the highest-scoring further-hop files.
	var directCount int
	for _, c := range candidates {
		if directSet[c.file] {
			directCount++
		}
	}
	budget := p.MaxFiles - directCount
	var kept []string
	for _, c := range candidates {
		if directSet[c.file] {
			kept = append(kept, c.file)
			continue
		}
		if budget > 0 {
			kept = append(kept, c.file)
			budget--
		}
	}
	keptSet := make(map[string]bool, len(kept))
	for _, f := range kept {
		keptSet[f] = true
	}

	var edges []NeighborhoodEdge
	for _, t := range g.ImportsFrom(p.File) {
		if keptSet[t] {
			edges = append(edges, NeighborhoodEdge{From: p.File, To: t})
		}
	}
	for _, f := range g.ImportedBy(p.File) {
		if keptSet[f] {
			edges = append(edges, NeighborhoodEdge{From: f, To: p.File})
		}
	}

	if p.Count {
		var totalSymbols int
		for _, f := range kept {
			totalSymbols += len(g.SymbolsOfFile(f))
		}
		return NeighborhoodResult{
			TotalFiles: len(kept), TotalSymbols: totalSymbols,
			TotalEdges: len(edges), TotalVisited: totalVisited,
		}, nil
	}

	ranked := e.Ranker.Rank(snap, nil)
	var symbols []SymbolResult
	for _, sc := range ranked {
		sym, ok := e.symbolOf(sc.SymbolKey)
		if !ok || !keptSet[sym.File] {
			continue
		}
		symbols = append(symbols, toSymbolResult(sym, sc.Score))
	}

	return NeighborhoodResult{
		Files: kept, Edges: edges, Symbols: symbols,
		TotalFiles: len(kept), TotalSymbols: len(symbols),
		TotalEdges: len(edges), TotalVisited: totalVisited,
	}, nil
}

