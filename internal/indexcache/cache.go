// Package indexcache is the cache/watcher component (C3): it discovers
// candidate files under a project root, filters them by ignore pattern,
// detects changes by modification time, and persists the graph + mtime map
// so the next run doesn't have to re-parse an unchanged tree.
package indexcache

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sgi-dev/sgi/internal/extract"
	"github.com/sgi-dev/sgi/internal/grammar"
	"github.com/sgi-dev/sgi/internal/graph"
	"github.com/sgi-dev/sgi/internal/logx"
	"github.com/sgi-dev/sgi/internal/rank"
	"github.com/sgi-dev/sgi/internal/types"
	"github.com/sgi-dev/sgi/pkg/pathutil"
)

// persistVersion is bumped whenever the persisted document's shape changes
// in a way old documents can't be read as. A version mismatch, like a
// parse error, triggers a cold rebuild rather than a hard failure.
const persistVersion = 1

type persistedDoc struct {
	Version int               `json:"version"`
	Graph   graph.Dump        `json:"graph"`
	Mtimes  map[string]int64  `json:"mtimes"`
}

// Result is what ensure() reports back.
type Result struct {
	Changed int
	Deleted int
	Scanned int
}

// Cache is the C3 session state: one per project root.
type Cache struct {
	root      string
	cachePath string
	matcher   *Matcher
	extractor *extract.Extractor

	mu          sync.Mutex
	mtimes      map[string]int64
	graph       *graph.Graph
	initialized bool
	pathTiers   []rank.PathTier
}

// New builds a Cache for root. projectCfg comes from
// <root>/.code-index/config.json; pass the zero ProjectConfig if it doesn't exist.
func New(root string, registry *grammar.Registry, projectCfg ProjectConfig) *Cache {
	tiers := rank.DefaultPathTiers()
	for prefix, w := range projectCfg.PathTiers {
		tiers = append([]rank.PathTier{{Pattern: prefix, Weight: w}}, tiers...)
	}
	cachePath, err := CacheFilePath(root)
	if err != nil {
		logx.Errorf("resolve cache path: %v", err)
	}
	return &Cache{
		root:      root,
		cachePath: cachePath,
		matcher:   NewMatcher(projectCfg.Ignore),
		extractor: extract.New(registry),
		mtimes:    make(map[string]int64),
		graph:     graph.New(),
		pathTiers: tiers,
	}
}

// Graph returns the live graph. Safe to read concurrently with the next
// Ensure call's parse phase (not with its merge phase, which is
// single-threaded per the engine's concurrency model).
func (c *Cache) Graph() *graph.Graph { return c.graph }

// PathTiers returns the merged path-tier table for the ranker.
func (c *Cache) PathTiers() []rank.PathTier { return c.pathTiers }

// Extractor exposes the cache's C2 instance so other components (diff)
// can extract definitions from buffers that never touch the persisted
// graph, such as a file's committed version at some ref.
func (c *Cache) Extractor() *extract.Extractor { return c.extractor }

// Ensure runs one incremental-update cycle (§4.3). On the very first call
// it loads the persisted document, if any, before walking the tree.
func (c *Cache) Ensure() (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		c.loadPersisted()
		c.initialized = true
	}

	found, err := c.walk()
	if err != nil {
		return Result{}, err
	}

	var changedPaths []string
	seen := make(map[string]bool, len(found))
	for relPath, mtime := range found {
		seen[relPath] = true
		if prev, ok := c.mtimes[relPath]; !ok || prev != mtime {
			changedPaths = append(changedPaths, relPath)
		}
	}
	var deletedPaths []string
	for relPath := range c.mtimes {
		if !seen[relPath] {
			deletedPaths = append(deletedPaths, relPath)
		}
	}

	result := Result{Changed: len(changedPaths), Deleted: len(deletedPaths), Scanned: len(found)}
	if result.Changed == 0 && result.Deleted == 0 {
		return result, nil
	}

	records := c.parseAll(changedPaths)

	removed := append(append([]string{}, deletedPaths...), changedPaths...)
	c.graph.Update(removed, records)

	for _, p := range deletedPaths {
		delete(c.mtimes, p)
	}
	for relPath, mtime := range found {
		c.mtimes[relPath] = mtime
	}

	c.persist()
	return result, nil
}

// Reindex drops in-memory state and the persisted file, then rebuilds.
func (c *Cache) Reindex() (Result, error) {
	c.mu.Lock()
	c.mtimes = make(map[string]int64)
	c.graph = graph.New()
	c.initialized = true
	if c.cachePath != "" {
		_ = os.Remove(c.cachePath)
	}
	c.mu.Unlock()
	return c.Ensure()
}

// walk discovers candidate files under root, honoring the ignore list and
// restricting to extensions the grammar registry knows about.
func (c *Cache) walk() (map[string]int64, error) {
	found := make(map[string]int64)
	err := filepath.WalkDir(c.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsPermission(err) || os.IsNotExist(err) {
				return nil // unreadable path: skipped silently (§4.3).
			}
			return err
		}
		rel := pathutil.ToRelative(p, c.root)
		if d.IsDir() {
			if rel != "." && c.matcher.Match(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !c.extractor.CanHandle(p) {
			return nil
		}
		if c.matcher.Match(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // unreadable file: skipped silently.
		}
		found[rel] = info.ModTime().UnixMilli()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// parseAll runs C2 over the changed set in parallel; this is the one
// pleasantly-parallel hotspot the concurrency model names (§5).
func (c *Cache) parseAll(relPaths []string) []types.FileSymbols {
	records := make([]types.FileSymbols, len(relPaths))
	var g errgroup.Group
	g.SetLimit(parallelism())

	for i, relPath := range relPaths {
		i, relPath := i, relPath
		g.Go(func() error {
			abs := pathutil.ToAbsolute(relPath, c.root)
			source, err := os.ReadFile(abs)
			if err != nil {
				logx.Debugf("read %s: %v", relPath, err)
				records[i] = types.FileSymbols{File: relPath}
				return nil // unreadable file: skipped, not fatal (§7 IOError).
			}
			fs, ok := c.extractor.Extract(relPath, source)
			if !ok || fs == nil {
				records[i] = types.FileSymbols{File: relPath}
				return nil
			}
			records[i] = *fs
			return nil
		})
	}
	_ = g.Wait()
	return records
}

func parallelism() int {
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 4
}

func (c *Cache) loadPersisted() {
	if c.cachePath == "" {
		return
	}
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		return // absent cache: cold build.
	}
	var doc persistedDoc
	if err := json.Unmarshal(data, &doc); err != nil || doc.Version != persistVersion {
		logx.Debugf("cache corrupt or stale version, cold rebuild: %v", err)
		return
	}
	c.graph = graph.Load(doc.Graph)
	c.mtimes = doc.Mtimes
	if c.mtimes == nil {
		c.mtimes = make(map[string]int64)
	}
}

func (c *Cache) persist() {
	if c.cachePath == "" {
		return
	}
	doc := persistedDoc{
		Version: persistVersion,
		Graph:   c.graph.Dump(),
		Mtimes:  c.mtimes,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		logx.Errorf("marshal cache: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err != nil {
		logx.Errorf("create cache dir: %v", err)
		return
	}
	tmp := c.cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		logx.Errorf("write cache: %v", err)
		return
	}
	if err := os.Rename(tmp, c.cachePath); err != nil {
		logx.Errorf("rename cache: %v", err)
	}
}
