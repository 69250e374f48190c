// Package graph is the heterogeneous graph builder (C4): it merges
// FileSymbols records into a multi-edge graph of file and symbol nodes,
// resolving references to definitions via a name index and a fixed
// disambiguation policy.
//
// Rather than a true multigraph, edges are stored as typed adjacency
// structures — one per edge kind — since per-kind multiplicity between any
// ordered node pair is at most one. This mirrors the design note in the
// specification this engine implements and the indexing-map-of-maps shape
// the rest of this codebase's graph-like structures use.
package graph

import (
	"sort"
	"sync"

	"github.com/sgi-dev/sgi/internal/types"
)

// AmbiguityCap is the default threshold above which a reference with many
// same-named candidates, and no same-file winner, is dropped.
const AmbiguityCap = 5

// FileNode is the file node (§3): id is the relative path.
type FileNode struct {
	Path        string
	SymbolCount int
}

// SymbolNode is the symbol node (§3): id is "<file>::<name>".
type SymbolNode struct {
	Key       string
	Name      string
	Kind      types.SymbolKind
	File      string
	LineStart int
	LineEnd   int
	Signature string
}

// Graph is the authoritative heterogeneous graph. All mutation is
// single-threaded by design (§5); the mutex guards readers that run
// concurrently with the next ensure() cycle, not concurrent mutators.
type Graph struct {
	mu sync.RWMutex

	files   map[string]*FileNode
	symbols map[string]*SymbolNode

	symbolsOfFile map[string][]string // file -> symbol keys it DEFINES

	referencesFwd map[string]map[string]bool // file -> set(symbolKey)
	referencesRev map[string]map[string]bool // symbolKey -> set(file)

	importsFwd  map[string]map[string]bool // file -> set(file) outgoing IMPORTS
	importsRev  map[string]map[string]bool // file -> set(file) incoming IMPORTS
	importCount map[string]map[string]int  // file -> ownerFile -> # refs backing the edge

	nameIndex map[string][]string // name -> symbol keys, rebuilt after every Build/Update
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		files:         make(map[string]*FileNode),
		symbols:       make(map[string]*SymbolNode),
		symbolsOfFile: make(map[string][]string),
		referencesFwd: make(map[string]map[string]bool),
		referencesRev: make(map[string]map[string]bool),
		importsFwd:    make(map[string]map[string]bool),
		importsRev:    make(map[string]map[string]bool),
		importCount:   make(map[string]map[string]int),
		nameIndex:     make(map[string][]string),
	}
}

// Build performs a cold build from scratch: every record is merged into an
// empty graph. Equivalent to New() followed by Update(nil, records).
func Build(records []types.FileSymbols) *Graph {
	g := New()
	g.Update(nil, records)
	return g
}

// Update is the incremental-update / cold-build shared merge operation
// (§4.4): remove every path in removed (dropping its symbol nodes and all
// incident edges), then merge added using the same three steps a cold
// build uses. Passing every currently-known path as removed and every
// record as added is a cold build.
func (g *Graph) Update(removed []string, added []types.FileSymbols) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range removed {
		g.removeFileLocked(p)
	}
	g.mergeLocked(added)
	g.rebuildNameIndexLocked()
}

func (g *Graph) removeFileLocked(path string) {
	if _, ok := g.files[path]; !ok {
		return
	}

	// Drop every symbol this file DEFINES, along with every REFERENCES
	// edge any other file holds into those symbols (and the IMPORTS edges
	// those references were backing).
	for _, key := range g.symbolsOfFile[path] {
		for fromFile := range g.referencesRev[key] {
			g.removeReferenceLocked(fromFile, key)
		}
		delete(g.symbols, key)
		delete(g.referencesRev, key)
	}
	delete(g.symbolsOfFile, path)

	// Drop every REFERENCES edge this file holds as a source.
	for key := range g.referencesFwd[path] {
		g.removeReferenceLocked(path, key)
	}
	delete(g.referencesFwd, path)

	delete(g.files, path)
}

func (g *Graph) mergeLocked(records []types.FileSymbols) {
	for _, rec := range records {
		g.files[rec.File] = &FileNode{Path: rec.File, SymbolCount: len(rec.Definitions)}
		keys := make([]string, 0, len(rec.Definitions))
		for _, def := range rec.Definitions {
			key := def.SymbolKey()
			g.symbols[key] = &SymbolNode{
				Key:       key,
				Name:      def.Name,
				Kind:      def.Kind,
				File:      def.File,
				LineStart: def.LineStart,
				LineEnd:   def.LineEnd,
				Signature: def.Signature,
			}
			keys = append(keys, key)
		}
		g.symbolsOfFile[rec.File] = keys
	}

	nameIndex := make(map[string][]string, len(g.symbols))
	for key, s := range g.symbols {
		nameIndex[s.Name] = append(nameIndex[s.Name], key)
	}

	for _, rec := range records {
		for _, ref := range rec.References {
			targets := resolve(ref.Name, rec.File, nameIndex, g.symbols, AmbiguityCap)
			for _, key := range targets {
				g.addReferenceLocked(rec.File, key)
			}
		}
	}
}

// resolve is the reference disambiguation policy (§4.4):
//  1. exactly one candidate -> wire to it
//  2. same-file candidates exist -> wire to those only
//  3. too many cross-file candidates (> cap) -> wire to nothing
//  4. otherwise -> wire to all candidates
func resolve(name, refFile string, nameIndex map[string][]string, symbols map[string]*SymbolNode, cap int) []string {
	candidates := nameIndex[name]
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates
	}
	var sameFile []string
	for _, c := range candidates {
		if symbols[c].File == refFile {
			sameFile = append(sameFile, c)
		}
	}
	if len(sameFile) > 0 {
		return sameFile
	}
	if len(candidates) > cap {
		return nil
	}
	return candidates
}

func (g *Graph) addReferenceLocked(fromFile, symKey string) {
	if g.referencesFwd[fromFile] == nil {
		g.referencesFwd[fromFile] = make(map[string]bool)
	}
	if g.referencesFwd[fromFile][symKey] {
		return // at-most-one REFERENCES edge per ordered pair.
	}
	g.referencesFwd[fromFile][symKey] = true
	if g.referencesRev[symKey] == nil {
		g.referencesRev[symKey] = make(map[string]bool)
	}
	g.referencesRev[symKey][fromFile] = true

	owner := g.symbols[symKey].File
	if owner == fromFile {
		return // no self-loop IMPORTS edges.
	}
	if g.importCount[fromFile] == nil {
		g.importCount[fromFile] = make(map[string]int)
	}
	g.importCount[fromFile][owner]++
	if g.importCount[fromFile][owner] == 1 {
		if g.importsFwd[fromFile] == nil {
			g.importsFwd[fromFile] = make(map[string]bool)
		}
		g.importsFwd[fromFile][owner] = true
		if g.importsRev[owner] == nil {
			g.importsRev[owner] = make(map[string]bool)
		}
		g.importsRev[owner][fromFile] = true
	}
}

func (g *Graph) removeReferenceLocked(fromFile, symKey string) {
	if !g.referencesFwd[fromFile][symKey] {
		return
	}
	delete(g.referencesFwd[fromFile], symKey)
	delete(g.referencesRev[symKey], fromFile)

	sym, ok := g.symbols[symKey]
	if !ok {
		return // symbol already gone; owner-side bookkeeping handled by caller.
	}
	owner := sym.File
	if owner == fromFile {
		return
	}
	if g.importCount[fromFile] == nil {
		return
	}
	g.importCount[fromFile][owner]--
	if g.importCount[fromFile][owner] <= 0 {
		delete(g.importCount[fromFile], owner)
		delete(g.importsFwd[fromFile], owner)
		delete(g.importsRev[owner], fromFile)
	}
}

func (g *Graph) rebuildNameIndexLocked() {
	idx := make(map[string][]string, len(g.symbols))
	for key, s := range g.symbols {
		idx[s.Name] = append(idx[s.Name], key)
	}
	g.nameIndex = idx
}

// --- read-only accessors -------------------------------------------------

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// HasFile reports whether a file node exists.
func (g *Graph) HasFile(path string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.files[path]
	return ok
}

// File returns the file node for path.
func (g *Graph) File(path string) (*FileNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.files[path]
	return f, ok
}

// Files lists every file path, sorted.
func (g *Graph) Files() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.files)
}

// Symbol returns the symbol node for key.
func (g *Graph) Symbol(key string) (*SymbolNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.symbols[key]
	return s, ok
}

// Symbols lists every symbol key, sorted.
func (g *Graph) Symbols() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.symbols)
}

// SymbolsOfFile lists the symbol keys a file DEFINES, in no particular
// guaranteed order beyond stability within one Update call.
func (g *Graph) SymbolsOfFile(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := g.symbolsOfFile[path]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// ReferencesFrom lists symbol keys a file holds a REFERENCES edge to.
func (g *Graph) ReferencesFrom(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.referencesFwd[path])
}

// ReferencersOf lists files holding a REFERENCES edge into symKey.
func (g *Graph) ReferencersOf(symKey string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.referencesRev[symKey])
}

// ImportsFrom lists files an IMPORTS edge points to from path (dependencies).
func (g *Graph) ImportsFrom(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.importsFwd[path])
}

// ImportedBy lists files holding an IMPORTS edge into path (dependents).
func (g *Graph) ImportedBy(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return sortedKeys(g.importsRev[path])
}

// ByName returns every symbol key whose Name equals name.
func (g *Graph) ByName(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := g.nameIndex[name]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Snapshot describes everything the ranker needs to run PageRank over a
// point-in-time copy of the graph, without holding the graph's lock for the
// duration of the (possibly slow) iterative computation.
type Snapshot struct {
	Files           []string
	Symbols         []string
	SymbolOwner     map[string]string   // symbol key -> owning file
	SymbolsOfFile   map[string][]string // file -> symbol keys it DEFINES
	ReferencesFrom  map[string][]string // file -> symbol keys it REFERENCES
	ImportsFrom     map[string][]string // file -> files it IMPORTS
}

// Snapshot copies the current graph shape out for the ranker.
func (g *Graph) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := Snapshot{
		Files:          sortedKeys(g.files),
		Symbols:        sortedKeys(g.symbols),
		SymbolOwner:    make(map[string]string, len(g.symbols)),
		SymbolsOfFile:  make(map[string][]string, len(g.symbolsOfFile)),
		ReferencesFrom: make(map[string][]string, len(g.referencesFwd)),
		ImportsFrom:    make(map[string][]string, len(g.importsFwd)),
	}
	for k, sym := range g.symbols {
		s.SymbolOwner[k] = sym.File
	}
	for f, keys := range g.symbolsOfFile {
		cp := make([]string, len(keys))
		copy(cp, keys)
		s.SymbolsOfFile[f] = cp
	}
	for f, set := range g.referencesFwd {
		s.ReferencesFrom[f] = sortedKeys(set)
	}
	for f, set := range g.importsFwd {
		s.ImportsFrom[f] = sortedKeys(set)
	}
	return s
}
