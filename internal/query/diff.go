package query

import (
	"context"
	"sort"

	"github.com/sgi-dev/sgi/internal/graph"
	"github.com/sgi-dev/sgi/internal/types"
)

type DiffParams struct {
	Ref string // default HEAD
}

type DefDelta struct {
	Name          string
	Kind          types.SymbolKind
	LineStart     int
	LineEnd       int
	ExternalCalls int
}

type FileDiff struct {
	File         string
	Added        []DefDelta
	Removed      []DefDelta
	Modified     []DefDelta
	MaxCallers   int
}

type DiffResult struct {
	Changed      []FileDiff
	TotalCallers int
	Unavailable  bool
}

// Diff compares the working copy against ref for every changed file,
// classifying each definition as added, removed, or signature-modified,
// and ranks files by the maximum external caller count among
// modified/removed definitions (§4.6 diff).
func (e *Engine) Diff(ctx context.Context, p DiffParams) (DiffResult, error) {
	if p.Ref == "" {
		p.Ref = "HEAD"
	}
	if e.Repo == nil {
		return DiffResult{Unavailable: true}, nil
	}
	if _, err := e.ensure(); err != nil {
		return DiffResult{}, err
	}

	changedPaths, err := e.Repo.ChangedFiles(ctx, p.Ref)
	if err != nil {
		return DiffResult{Unavailable: true}, nil
	}

	g := e.Cache.Graph()
	extractor := e.Cache.Extractor()

	var diffs []FileDiff
	total := 0
	for _, relPath := range changedPaths {
		if !extractor.CanHandle(relPath) {
			continue
		}

		var current []types.Definition
		if source, err := e.readFile(relPath); err == nil {
			if fs, ok := extractor.Extract(relPath, source); ok {
				current = fs.Definitions
			}
		}

		var committed []types.Definition
		if old, err := e.Repo.Show(ctx, p.Ref, relPath); err == nil {
			if fs, ok := extractor.Extract(relPath, old); ok {
				committed = fs.Definitions
			}
		}

		fd := classifyDefinitions(relPath, committed, current)
		for i := range fd.Removed {
			fd.Removed[i].ExternalCalls = externalCallerCount(g, relPath, fd.Removed[i].Name)
			if fd.Removed[i].ExternalCalls > fd.MaxCallers {
				fd.MaxCallers = fd.Removed[i].ExternalCalls
			}
		}
		for i := range fd.Modified {
			fd.Modified[i].ExternalCalls = externalCallerCount(g, relPath, fd.Modified[i].Name)
			if fd.Modified[i].ExternalCalls > fd.MaxCallers {
				fd.MaxCallers = fd.Modified[i].ExternalCalls
			}
		}
		total += fd.MaxCallers
		diffs = append(diffs, fd)
	}

	sort.Slice(diffs, func(i, j int) bool {
		if diffs[i].MaxCallers != diffs[j].MaxCallers {
			return diffs[i].MaxCallers > diffs[j].MaxCallers
		}
		return diffs[i].File < diffs[j].File
	})

	return DiffResult{Changed: diffs, TotalCallers: total}, nil
}

// externalCallerCount counts referencing files other than owner — a
// "who'd notice if this definition's signature changed" proxy.
func externalCallerCount(g *graph.Graph, owner, name string) int {
	count := 0
	for _, f := range g.ReferencersOf(owner + "::" + name) {
		if f != owner {
			count++
		}
	}
	return count
}

func classifyDefinitions(file string, before, after []types.Definition) FileDiff {
	beforeByName := make(map[string]types.Definition, len(before))
	for _, d := range before {
		beforeByName[d.Name] = d
	}
	afterByName := make(map[string]types.Definition, len(after))
	for _, d := range after {
		afterByName[d.Name] = d
	}

	fd := FileDiff{File: file}
	for name, a := range afterByName {
		b, existed := beforeByName[name]
		if !existed {
			fd.Added = append(fd.Added, toDelta(a))
			continue
		}
		if b.Signature != a.Signature {
			fd.Modified = append(fd.Modified, toDelta(a))
		}
	}
	for name, b := range beforeByName {
		if _, stillThere := afterByName[name]; !stillThere {
			fd.Removed = append(fd.Removed, toDelta(b))
		}
	}

	sortDeltas(fd.Added)
	sortDeltas(fd.Removed)
	sortDeltas(fd.Modified)
	return fd
}

func toDelta(d types.Definition) DefDelta {
	return DefDelta{Name: d.Name, Kind: d.Kind, LineStart: d.LineStart, LineEnd: d.LineEnd}
}

func sortDeltas(d []DefDelta) {
	sort.Slice(d, func(i, j int) bool { return d[i].LineStart < d[j].LineStart })
}
