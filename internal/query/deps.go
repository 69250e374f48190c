package query

type FileScore struct {
	File  string
	Score float64
}

type FileListResult struct {
	FileNotFound
	Items []FileScore
	Total int
}

type FileParams struct {
	File string
	Page Page
}

// Dependencies returns the outgoing IMPORTS neighbors of file, ranked by
// file-level PageRank (§4.6 dependencies).
func (e *Engine) Dependencies(p FileParams) (FileListResult, error) {
	return e.fileNeighbors(p, false)
}

// Dependents returns the incoming IMPORTS neighbors of file, ranked
// likewise (§4.6 dependents).
func (e *Engine) Dependents(p FileParams) (FileListResult, error) {
	return e.fileNeighbors(p, true)
}

func (e *Engine) fileNeighbors(p FileParams, incoming bool) (FileListResult, error) {
	if _, err := e.ensure(); err != nil {
		return FileListResult{}, err
	}
	g := e.Cache.Graph()
	snap := e.snapshot()

	if !g.HasFile(p.File) {
		return FileListResult{FileNotFound: FileNotFound{NotFound: true, Suggestions: suggestFiles(snap.Files, p.File)}}, nil
	}

	var neighbors []string
	if incoming {
		neighbors = g.ImportedBy(p.File)
	} else {
		neighbors = g.ImportsFrom(p.File)
	}

	fileScores := e.Ranker.FileScores(snap)
	sortedFloat64Desc(neighbors, fileScores)

	scored := make([]FileScore, len(neighbors))
	for i, f := range neighbors {
		scored[i] = FileScore{File: f, Score: fileScores[f]}
	}

	page, total := pageSlice(scored, p.Page)
	return FileListResult{Items: page, Total: total}, nil
}
