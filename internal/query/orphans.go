package query

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/sgi-dev/sgi/internal/graph"
)

type OrphanLevel string

const (
	OrphanFile   OrphanLevel = "file"
	OrphanSymbol OrphanLevel = "symbol"
)

type OrphansParams struct {
	Level OrphanLevel // default file
	Page  Page
}

type OrphanFile struct {
	File        string
	SymbolCount int
}

type OrphansResult struct {
	Files   []OrphanFile
	Symbols []SymbolResult
	Total   int
}

// Orphans returns files with no IMPORTS edges, or symbols with no external
// REFERENCES, after excluding the fixed false-positive patterns (§4.6
// orphans, §6 false-positive tables).
func (e *Engine) Orphans(p OrphansParams) (OrphansResult, error) {
	if p.Level == "" {
		p.Level = OrphanFile
	}
	if _, err := e.ensure(); err != nil {
		return OrphansResult{}, err
	}
	g := e.Cache.Graph()

	if p.Level == OrphanSymbol {
		return e.symbolOrphans(g, p.Page)
	}
	return e.fileOrphans(g, p.Page)
}

func (e *Engine) fileOrphans(g *graph.Graph, page Page) (OrphansResult, error) {
	var orphans []OrphanFile
	for _, f := range g.Files() {
		if len(g.ImportsFrom(f)) > 0 || len(g.ImportedBy(f)) > 0 {
			continue
		}
		if isFalsePositiveFile(f) {
			continue
		}
		count := len(g.SymbolsOfFile(f))
		orphans = append(orphans, OrphanFile{File: f, SymbolCount: count})
	}
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].SymbolCount != orphans[j].SymbolCount {
			return orphans[i].SymbolCount > orphans[j].SymbolCount
		}
		return orphans[i].File < orphans[j].File
	})
	kept, total := pageSlice(orphans, page)
	return OrphansResult{Files: kept, Total: total}, nil
}

func (e *Engine) symbolOrphans(g *graph.Graph, page Page) (OrphansResult, error) {
	var orphans []SymbolResult
	for _, key := range g.Symbols() {
		sym, ok := e.symbolOf(key)
		if !ok {
			continue
		}
		referencers := g.ReferencersOf(key)
		external := false
		for _, f := range referencers {
			if f != sym.File {
				external = true
				break
			}
		}
		if external {
			continue
		}
		if isFalsePositiveSymbol(sym.Name, sym.File, sym.Signature) {
			continue
		}
		orphans = append(orphans, toSymbolResult(sym, 0))
	}
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].File != orphans[j].File {
			return orphans[i].File < orphans[j].File
		}
		return orphans[i].LineStart < orphans[j].LineStart
	})
	kept, total := pageSlice(orphans, page)
	return OrphansResult{Symbols: kept, Total: total}, nil
}

var (
	excludedFileStems = map[string]bool{
		"index": true, "main": true, "app": true, "server": true, "cli": true,
		"mod": true, "lib": true, "manage": true, "wsgi": true, "asgi": true,
		"handler": true, "lambda": true, "__init__": true, "__main__": true,
		"config": true, "settings": true, "conf": true, "conftest": true,
		"setup": true, "gulpfile": true, "gruntfile": true, "makefile": true,
		"rakefile": true, "taskfile": true,
	}
	testDirSegments = map[string]bool{
		"tests": true, "test": true, "spec": true, "specs": true, "__tests__": true,
	}
	configStemRe = regexp.MustCompile(`(?i)(^|[./])config$|\.rc$`)
)

func isFalsePositiveFile(relPath string) bool {
	base := path.Base(relPath)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(relPath, ".d.ts") {
		return true
	}
	stem := stemOf(base)
	if excludedFileStems[strings.ToLower(stem)] {
		return true
	}
	if configStemRe.MatchString(stem) {
		return true
	}
	for _, seg := range strings.Split(relPath, "/") {
		if testDirSegments[seg] {
			return true
		}
	}
	lower := strings.ToLower(stem)
	if strings.HasPrefix(lower, "test_") || strings.HasPrefix(lower, "test.") {
		return true
	}
	for _, suf := range []string{".test", ".spec", "_test", "_spec"} {
		if strings.HasSuffix(lower, suf) {
			return true
		}
	}
	return false
}

var (
	excludedSymbolNames = map[string]bool{
		"main": true, "run": true, "start": true, "serve": true, "handler": true,
		"execute": true, "app": true, "setup": true, "teardown": true,
		"setUp": true, "tearDown": true, "beforeAll": true, "afterAll": true,
		"beforeEach": true, "afterEach": true, "before": true, "after": true,
		"constructor": true, "init": true, "initialize": true, "configure": true,
		"register": true, "middleware": true, "plugin": true, "default": true,
		"module": true, "exports": true,
	}
	indentMethodRe = regexp.MustCompile(`\(\s*(self|cls)\s*[,)]`)
	braceFuncKwRe  = regexp.MustCompile(`\bfunction\b`)
)

func isFalsePositiveSymbol(name, file, signature string) bool {
	if excludedSymbolNames[name] {
		return true
	}
	if len(name) <= 2 {
		return true
	}
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return true
	}
	if strings.EqualFold(name, stemOf(path.Base(file))) {
		return true
	}
	if indentMethodRe.MatchString(signature) {
		return true
	}
	if looksLikeBraceMethodSignature(file, signature) {
		return true
	}
	return false
}

var jsLikeExt = map[string]bool{".js": true, ".jsx": true, ".ts": true, ".tsx": true}

// looksLikeBraceMethodSignature applies the brace-language heuristic: in a
// JS/TS-family file, a signature with a parameter list but no "function"
// keyword is assumed to be a method shorthand rather than a free function
// declaration. Only meaningful where "function" is itself how free
// functions are spelled, so it's scoped to that family; other brace
// languages (Go, Java, Rust, C++, C#) don't use the keyword for any
// top-level function and would false-positive on every one.
func looksLikeBraceMethodSignature(file, signature string) bool {
	if !jsLikeExt[path.Ext(file)] {
		return false
	}
	if !strings.Contains(signature, "(") {
		return false
	}
	return !braceFuncKwRe.MatchString(signature)
}

func stemOf(base string) string {
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
