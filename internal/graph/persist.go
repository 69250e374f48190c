package graph

// Dump is the graph's serializable shape. IMPORTS edges are deliberately
// not stored: they are a pure function of (References, symbol ownership),
// so replaying References through the same merge logic on Load
// reconstructs them exactly, keeping the persisted document smaller and
// the two code paths (build vs. reload) impossible to drift apart.
type Dump struct {
	Files      []FileNode
	Symbols    []SymbolNode
	References []RefPair
}

// RefPair is one REFERENCES edge: From is the file, To is the symbol key.
type RefPair struct {
	From string
	To   string
}

// Dump snapshots the graph into its persistable form.
func (g *Graph) Dump() Dump {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d := Dump{
		Files:   make([]FileNode, 0, len(g.files)),
		Symbols: make([]SymbolNode, 0, len(g.symbols)),
	}
	for _, path := range sortedKeys(g.files) {
		d.Files = append(d.Files, *g.files[path])
	}
	for _, key := range sortedKeys(g.symbols) {
		d.Symbols = append(d.Symbols, *g.symbols[key])
	}
	for _, file := range sortedKeys(g.referencesFwd) {
		for _, key := range sortedKeys(g.referencesFwd[file]) {
			d.References = append(d.References, RefPair{From: file, To: key})
		}
	}
	return d
}

// Load reconstructs a graph from a Dump, recomputing IMPORTS edges via the
// same addReferenceLocked logic Update uses.
func Load(d Dump) *Graph {
	g := New()
	for _, f := range d.Files {
		fn := f
		g.files[fn.Path] = &fn
	}
	for _, s := range d.Symbols {
		sn := s
		g.symbols[sn.Key] = &sn
		g.symbolsOfFile[sn.File] = append(g.symbolsOfFile[sn.File], sn.Key)
	}
	for _, ref := range d.References {
		g.addReferenceLocked(ref.From, ref.To)
	}
	g.rebuildNameIndexLocked()
	return g
}
