// Package query is the query engine (C6): every list-returning operator
// shares the preamble "ensure the cache is current, invalidate the ranker
// if anything changed, then answer from the graph" and the same
// offset/limit/count pagination contract, applied after ranking.
package query

import (
	"os"
	"sort"
	"strings"

	"github.com/sgi-dev/sgi/internal/graph"
	"github.com/sgi-dev/sgi/internal/indexcache"
	"github.com/sgi-dev/sgi/internal/rank"
	"github.com/sgi-dev/sgi/internal/vcs"
	"github.com/sgi-dev/sgi/pkg/pathutil"
)

// Engine answers queries against one project's cache, graph, and ranker.
// Repo may be nil when the project root isn't a git repository; diff and
// history then report VcsUnavailable rather than failing the session.
type Engine struct {
	Root   string
	Cache  *indexcache.Cache
	Ranker *rank.Ranker
	Repo   *vcs.Repo
}

func New(root string, cache *indexcache.Cache, ranker *rank.Ranker, repo *vcs.Repo) *Engine {
	return &Engine{Root: root, Cache: cache, Ranker: ranker, Repo: repo}
}

// ensure runs the shared preamble every operator starts with.
func (e *Engine) ensure() (indexcache.Result, error) {
	res, err := e.Cache.Ensure()
	if err != nil {
		return res, err
	}
	if res.Changed > 0 || res.Deleted > 0 {
		e.Ranker.Invalidate()
	}
	return res, nil
}

func (e *Engine) snapshot() graph.Snapshot {
	return e.Cache.Graph().Snapshot()
}

func (e *Engine) symbolOf(key string) (*graph.SymbolNode, bool) {
	return e.Cache.Graph().Symbol(key)
}

func (e *Engine) readFile(relPath string) ([]byte, error) {
	return os.ReadFile(pathutil.ToAbsolute(relPath, e.Root))
}

// Page is the shared {offset, limit, count} request shape; applied after
// whatever ordering an operator produces.
type Page struct {
	Offset int
	Limit  int
	Count  bool
}

// pageSlice applies p to items, returning the kept slice and the total
// count items had before paging. When p.Count is set the kept slice is nil.
func pageSlice[T any](items []T, p Page) (kept []T, total int) {
	total = len(items)
	if p.Count {
		return nil, total
	}
	o := p.Offset
	if o < 0 {
		o = 0
	}
	if o > len(items) {
		o = len(items)
	}
	items = items[o:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items, total
}

// FileNotFound is embedded in operator results that take a file parameter,
// per the UnknownFile error kind (§7): rather than failing, the response
// carries fileNotFound plus up to 5 suggestions.
type FileNotFound struct {
	NotFound    bool     `json:"fileNotFound,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

const maxFileSuggestions = 5

// suggestFiles implements the Open Question #1 resolution: exact,
// case-insensitive basename/substring matching, capped at 5, unranked —
// not fuzzy edit-distance, since a typo in a full relative path usually
// still shares a literal substring with the intended file.
func suggestFiles(files []string, want string) []string {
	lowerWant := toLower(want)
	base := baseName(want)
	lowerBase := toLower(base)

	var out []string
	for _, f := range files {
		if len(out) >= maxFileSuggestions {
			break
		}
		lf := toLower(f)
		if strings.Contains(lf, lowerWant) || strings.Contains(toLower(baseName(f)), lowerBase) {
			out = append(out, f)
		}
	}
	return out
}

func toLower(s string) string { return strings.ToLower(s) }

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

func sortedFloat64Desc(keys []string, score map[string]float64) {
	sort.Slice(keys, func(i, j int) bool {
		if score[keys[i]] != score[keys[j]] {
			return score[keys[i]] > score[keys[j]]
		}
		return keys[i] < keys[j]
	})
}
