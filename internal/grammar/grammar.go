// Package grammar is the grammar registry (C1): it maps a file extension to
// a language id, a compiled tree-sitter grammar, and the two query strings
// (definitions, references) used to extract symbols from that language.
//
// Extension tables and query strings are static; grammar/query compilation
// happens lazily the first time a language is needed and is then reused for
// the lifetime of the process. A grammar or query failure for one language
// never prevents the others from working.
package grammar

import (
	"sync"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sgi-dev/sgi/internal/types"
)

// Grammar is what Resolve hands back for one extension: the language id,
// the compiled grammar, and the compiled definition/reference queries.
type Grammar struct {
	LanguageID string
	Language   *tree_sitter.Language
	DefQuery   *tree_sitter.Query
	RefQuery   *tree_sitter.Query

	// KindOf maps a @definition capture's node type to a SymbolKind.
	KindOf func(nodeType string) types.SymbolKind
}

// Registry lazily builds and caches one Grammar per extension.
type Registry struct {
	mu       sync.RWMutex
	grammars map[string]*Grammar
	setup    map[string]func() // extension -> one-time setup closure
	done     map[string]bool
}

// NewRegistry builds a registry with every language this package knows how
// to set up. Nothing is parsed or compiled yet — that happens lazily.
func NewRegistry() *Registry {
	r := &Registry{
		grammars: make(map[string]*Grammar),
		setup:    make(map[string]func()),
		done:     make(map[string]bool),
	}
	r.registerAll()
	return r
}

// Resolve returns the Grammar for a file extension (including the leading
// dot, e.g. ".go"), or ok=false if no language is registered for it.
func (r *Registry) Resolve(ext string) (*Grammar, bool) {
	r.mu.RLock()
	g, ok := r.grammars[ext]
	r.mu.RUnlock()
	if ok {
		return g, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.grammars[ext]; ok {
		return g, true
	}
	fn, ok := r.setup[ext]
	if !ok {
		return nil, false
	}
	fn()
	g, ok = r.grammars[ext]
	return g, ok
}

// Extensions lists every extension with a registered setup routine,
// regardless of whether it has been resolved yet.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.setup))
	for ext := range r.setup {
		exts = append(exts, ext)
	}
	return exts
}

// register compiles a grammar + queries for one or more extensions sharing
// the same language. Mirrors the teacher's setupX pattern, including the
// typed-nil guard on NewQuery: the tree-sitter Go binding can return a
// non-nil error alongside a nil query (or vice versa) on failure, so query
// validity is judged by nilness of the query itself, not the error.
func (r *Registry) register(languageID string, languagePtr unsafe.Pointer, defQuery, refQuery string, kindOf func(string) types.SymbolKind, exts ...string) {
	language := tree_sitter.NewLanguage(languagePtr)

	def, _ := tree_sitter.NewQuery(language, defQuery)
	ref, _ := tree_sitter.NewQuery(language, refQuery)
	if def == nil {
		return
	}

	g := &Grammar{
		LanguageID: languageID,
		Language:   language,
		DefQuery:   def,
		RefQuery:   ref,
		KindOf:     kindOf,
	}
	for _, ext := range exts {
		r.grammars[ext] = g
	}
}
