// Package sgi is the session orchestrator: it wires the grammar registry,
// cache/watcher, graph, ranker, and query engine into the one object a
// CLI or MCP front end actually holds. Grounded on the teacher's
// cmd/lci main.go, which holds a single *indexing.MasterIndex for the
// session's lifetime.
package sgi

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sgi-dev/sgi/internal/config"
	"github.com/sgi-dev/sgi/internal/grammar"
	"github.com/sgi-dev/sgi/internal/indexcache"
	"github.com/sgi-dev/sgi/internal/logx"
	"github.com/sgi-dev/sgi/internal/outline"
	"github.com/sgi-dev/sgi/internal/query"
	"github.com/sgi-dev/sgi/internal/rank"
	"github.com/sgi-dev/sgi/internal/types"
	"github.com/sgi-dev/sgi/internal/vcs"
)

// Index is one indexing session for a project root.
type Index struct {
	Root     string
	Registry *grammar.Registry
	Cache    *indexcache.Cache
	Ranker   *rank.Ranker
	Query    *query.Engine
	Repo     *vcs.Repo // nil when root isn't a git repository
	Config   config.Config
}

// Open resolves root to an absolute path, loads ambient and project
// configuration, and builds every component, but does not scan the
// filesystem yet — the first Ensure/Reindex call (or the query engine's
// own preamble) does that.
func Open(root string) (*Index, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, err
	}
	logx.SetVerbose(cfg.Logging.Verbose)

	registry := grammar.NewRegistry()

	projectCfg, err := indexcache.LoadProjectConfig(absRoot)
	if err != nil {
		return nil, err
	}
	for _, dir := range config.DetectBuildArtifactDirs(absRoot) {
		projectCfg.Ignore = append(projectCfg.Ignore, filepath.ToSlash(filepath.Clean(dir))+"/**")
	}

	cache := indexcache.New(absRoot, registry, projectCfg)
	ranker := rank.New(cache.PathTiers())

	var repo *vcs.Repo
	if isGitRepo(absRoot) {
		repo = vcs.NewRepo(absRoot)
	}

	eng := query.New(absRoot, cache, ranker, repo)

	return &Index{
		Root:     absRoot,
		Registry: registry,
		Cache:    cache,
		Ranker:   ranker,
		Query:    eng,
		Repo:     repo,
		Config:   cfg,
	}, nil
}

func isGitRepo(root string) bool {
	info, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil && info.IsDir()
}

// Ensure runs one incremental-update cycle directly, for callers (stats,
// outline) that don't go through a query operator.
func (ix *Index) Ensure() (indexcache.Result, error) {
	res, err := ix.Cache.Ensure()
	if err != nil {
		return res, err
	}
	if res.Changed > 0 || res.Deleted > 0 {
		ix.Ranker.Invalidate()
	}
	return res, nil
}

// Reindex discards the persisted document and rebuilds from scratch.
func (ix *Index) Reindex() (indexcache.Result, error) {
	res, err := ix.Cache.Reindex()
	ix.Ranker.Invalidate()
	return res, err
}

// Watch runs live-watch mode: fsnotify events feed a debounced Ensure.
func (ix *Index) Watch(ctx context.Context, onChange func(indexcache.Result)) error {
	debounce := time.Duration(ix.Config.Performance.WatchDebounceMs) * time.Millisecond
	return ix.Cache.Watch(ctx, debounce, func(res indexcache.Result) {
		ix.Ranker.Invalidate()
		onChange(res)
	})
}

// Stats is a session-level summary used by the `stats` CLI command.
type Stats struct {
	Files   int
	Symbols int
}

func (ix *Index) Stats() (Stats, error) {
	if _, err := ix.Ensure(); err != nil {
		return Stats{}, err
	}
	g := ix.Cache.Graph()
	return Stats{Files: len(g.Files()), Symbols: len(g.Symbols())}, nil
}

// Outline renders file's collapsed structure, or expands named symbols.
func (ix *Index) Outline(relPath string, expandSymbols []string, withCallerCounts bool) (outline.Result, error) {
	if _, err := ix.Ensure(); err != nil {
		return outline.Result{}, err
	}
	g := ix.Cache.Graph()

	source, err := os.ReadFile(filepath.Join(ix.Root, relPath))
	if err != nil {
		return outline.Result{}, err
	}

	var defs []types.Definition
	var callerCounts map[string]int
	if withCallerCounts {
		callerCounts = make(map[string]int)
	}
	for _, key := range g.SymbolsOfFile(relPath) {
		sym, ok := g.Symbol(key)
		if !ok {
			continue
		}
		defs = append(defs, types.Definition{
			Name: sym.Name, Kind: sym.Kind, File: sym.File,
			LineStart: sym.LineStart, LineEnd: sym.LineEnd, Signature: sym.Signature,
		})
		if withCallerCounts {
			callerCounts[sym.Name] = len(g.ReferencersOf(key))
		}
	}

	return outline.Render(outline.Params{
		Source:        string(source),
		Definitions:   defs,
		ExpandSymbols: expandSymbols,
		CallerCounts:  callerCounts,
	}), nil
}
