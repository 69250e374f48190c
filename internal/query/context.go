package query

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sgi-dev/sgi/internal/graph"
	"github.com/sgi-dev/sgi/internal/suggest"
	"github.com/sgi-dev/sgi/internal/types"
)

type ContextParams struct {
	Symbol string
	File   string
}

type UsedSymbol struct {
	SymbolResult
}

type TypePreview struct {
	SymbolResult
	Preview   []string
	Truncated bool
}

type ContextResult struct {
	Target        SymbolResult
	Used          []UsedSymbol
	TypePreviews  []TypePreview
	CallerFiles   []string
	Suggestions   []string
}

const maxTypePreviewLines = 15

// stopwords is the generic-name exclusion list for context's body scan —
// common keywords and builtins that would otherwise show up as "used
// symbols" in nearly every function body, across the supported languages.
var stopwords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "return": true,
	"break": true, "continue": true, "switch": true, "case": true,
	"default": true, "do": true, "try": true, "catch": true, "finally": true,
	"throw": true, "new": true, "delete": true, "true": true, "false": true,
	"null": true, "nil": true, "undefined": true, "void": true, "var": true,
	"let": true, "const": true, "func": true, "function": true, "def": true,
	"class": true, "struct": true, "interface": true, "type": true,
	"import": true, "export": true, "package": true, "public": true,
	"private": true, "protected": true, "static": true, "final": true,
	"this": true, "self": true, "super": true, "int": true, "string": true,
	"bool": true, "float": true, "double": true, "error": true, "err": true,
}

// Context resolves one symbol and its usage context (§4.6 context).
func (e *Engine) Context(p ContextParams) (ContextResult, error) {
	if _, err := e.ensure(); err != nil {
		return ContextResult{}, err
	}
	g := e.Cache.Graph()
	snap := e.snapshot()

	candidates := filterByFile(g, g.ByName(p.Symbol), p.File, e)
	if len(candidates) == 0 {
		return ContextResult{Suggestions: e.suggestSymbolNames(snap, p.Symbol)}, nil
	}

	target := e.bestByRank(candidates, snap)
	targetSym, _ := e.symbolOf(target)
	result := ContextResult{Target: toSymbolResult(targetSym, 0)}

	source, err := e.readFile(targetSym.File)
	if err == nil {
		body := extractBody(string(source), targetSym.LineStart, targetSym.LineEnd)
		result.Used = e.usedSymbols(g, snap, body, targetSym)
		result.TypePreviews = e.typePreviews(g, targetSym, source)
	}

	callerSet := make(map[string]bool)
	for _, key := range candidates {
		for _, f := range g.ReferencersOf(key) {
			callerSet[f] = true
		}
	}
	for f := range callerSet {
		result.CallerFiles = append(result.CallerFiles, f)
	}
	sort.Strings(result.CallerFiles)

	return result, nil
}

func filterByFile(g *graph.Graph, keys []string, file string, e *Engine) []string {
	if file == "" {
		return keys
	}
	var out []string
	for _, k := range keys {
		if sym, ok := e.symbolOf(k); ok && sym.File == file {
			out = append(out, k)
		}
	}
	return out
}

// bestByRank breaks ambiguity among same-named candidates by unfocused
// PageRank, highest first.
func (e *Engine) bestByRank(keys []string, snap graph.Snapshot) string {
	if len(keys) == 1 {
		return keys[0]
	}
	ranked := e.Ranker.Rank(snap, nil)
	pos := make(map[string]int, len(ranked))
	for i, sc := range ranked {
		pos[sc.SymbolKey] = i
	}
	best := keys[0]
	for _, k := range keys[1:] {
		if pos[k] < pos[best] {
			best = k
		}
	}
	return best
}

func (e *Engine) suggestSymbolNames(snap graph.Snapshot, name string) []string {
	names := make(map[string]bool)
	for _, k := range snap.Symbols {
		if sym, ok := e.symbolOf(k); ok {
			names[sym.Name] = true
		}
	}
	all := make([]string, 0, len(names))
	for n := range names {
		all = append(all, n)
	}
	return suggest.Symbols(name, all, maxFileSuggestions)
}

var wordRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

func (e *Engine) usedSymbols(g *graph.Graph, snap graph.Snapshot, body string, target *graph.SymbolNode) []UsedSymbol {
	seen := make(map[string]bool)
	var out []UsedSymbol
	for _, word := range wordRe.FindAllString(body, -1) {
		if len(word) <= 2 || stopwords[word] || word == target.Name || seen[word] {
			continue
		}
		seen[word] = true
		candidates := g.ByName(word)
		if len(candidates) == 0 {
			continue
		}
		best := e.bestSameFileOrRanked(candidates, target.File, snap)
		if best == "" {
			continue
		}
		sym, ok := e.symbolOf(best)
		if !ok {
			continue
		}
		out = append(out, UsedSymbol{SymbolResult: toSymbolResult(sym, 0)})
	}
	return out
}

func (e *Engine) bestSameFileOrRanked(keys []string, file string, snap graph.Snapshot) string {
	var sameFile []string
	for _, k := range keys {
		if sym, ok := e.symbolOf(k); ok && sym.File == file {
			sameFile = append(sameFile, k)
		}
	}
	if len(sameFile) > 0 {
		return e.bestByRank(sameFile, snap)
	}
	return e.bestByRank(keys, snap)
}

var capitalizedTokenRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9_]*\b`)

func (e *Engine) typePreviews(g *graph.Graph, target *graph.SymbolNode, fullSource []byte) []TypePreview {
	var previews []TypePreview
	seen := make(map[string]bool)
	for _, tok := range capitalizedTokenRe.FindAllString(target.Signature, -1) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		for _, key := range g.ByName(tok) {
			sym, ok := e.symbolOf(key)
			if !ok || (sym.Kind != types.KindClass && sym.Kind != types.KindType) {
				continue
			}
			source, err := e.readFile(sym.File)
			if err != nil {
				source = fullSource
				if sym.File != target.File {
					continue
				}
			}
			lines := splitLines(string(source))
			body := sliceLines(lines, sym.LineStart, sym.LineEnd)
			truncated := len(body) > maxTypePreviewLines
			if truncated {
				body = body[:maxTypePreviewLines]
			}
			previews = append(previews, TypePreview{
				SymbolResult: toSymbolResult(sym, 0),
				Preview:      body,
				Truncated:    truncated,
			})
			break
		}
	}
	return previews
}

func extractBody(source string, lineStart, lineEnd int) string {
	lines := splitLines(source)
	return strings.Join(sliceLines(lines, lineStart, lineEnd), "\n")
}

func sliceLines(lines []string, start, end int) []string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return nil
	}
	return append([]string{}, lines[start-1:end]...)
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

