package query

import (
	"bufio"
	"bytes"
	"regexp"

	"github.com/sgi-dev/sgi/internal/suggest"
)

type CallerParams struct {
	Symbol  string
	File    string // narrows which same-named definitions count as targets
	Context int    // >0: include call-site line numbers with ±Context lines
	Page    Page
}

type CallSite struct {
	Line    int
	Context []string // lines [Line-Context, Line+Context]; the first one's 1-based number is StartLine
	StartLine int
}

type CallerFile struct {
	File  string
	Score float64
	Sites []CallSite
}

type CallerResult struct {
	Targets     []SymbolResult
	Files       []CallerFile
	Total       int
	Suggestions []string
}

// Callers answers "who calls this symbol" (§4.6 callers).
func (e *Engine) Callers(p CallerParams) (CallerResult, error) {
	if _, err := e.ensure(); err != nil {
		return CallerResult{}, err
	}
	g := e.Cache.Graph()
	snap := e.snapshot()

	candidateKeys := g.ByName(p.Symbol)
	var targets []SymbolResult
	fileSet := make(map[string]bool)
	for _, key := range candidateKeys {
		sym, ok := e.symbolOf(key)
		if !ok {
			continue
		}
		if p.File != "" && sym.File != p.File {
			continue
		}
		targets = append(targets, toSymbolResult(sym, 0))
		for _, f := range g.ReferencersOf(key) {
			fileSet[f] = true
		}
	}

	if len(targets) == 0 {
		allNames := make(map[string]bool)
		for _, k := range snap.Symbols {
			if sym, ok := e.symbolOf(k); ok {
				allNames[sym.Name] = true
			}
		}
		names := make([]string, 0, len(allNames))
		for n := range allNames {
			names = append(names, n)
		}
		return CallerResult{Suggestions: suggest.Symbols(p.Symbol, names, maxFileSuggestions)}, nil
	}

	fileScores := e.Ranker.FileScores(snap)
	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}
	sortedFloat64Desc(files, fileScores)

	page, total := pageSlice(files, p.Page)

	// Own line ranges (per target's file) are excluded from call-site matches
	// to avoid a definition matching its own signature.
	ownRanges := make(map[string][][2]int)
	for _, t := range targets {
		ownRanges[t.File] = append(ownRanges[t.File], [2]int{t.LineStart, t.LineEnd})
	}

	callRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(p.Symbol) + `\s*\(`)
	wordRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(p.Symbol) + `\b`)

	var result []CallerFile
	for _, f := range page {
		cf := CallerFile{File: f, Score: fileScores[f]}
		if p.Context > 0 {
			if lines, err := e.readLines(f); err == nil {
				cf.Sites = callSites(lines, callRe, wordRe, ownRanges[f], p.Context)
			}
		}
		result = append(result, cf)
	}

	return CallerResult{Targets: targets, Files: result, Total: total}, nil
}

func (e *Engine) readLines(relPath string) ([]string, error) {
	data, err := e.readFile(relPath)
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, nil
}

func callSites(lines []string, callRe, wordRe *regexp.Regexp, exclude [][2]int, context int) []CallSite {
	var sites []CallSite
	for i, line := range lines {
		lineNo := i + 1
		if inRanges(lineNo, exclude) {
			continue
		}
		if !callRe.MatchString(line) && !wordRe.MatchString(line) {
			continue
		}
		start := lineNo - context
		if start < 1 {
			start = 1
		}
		end := lineNo + context
		if end > len(lines) {
			end = len(lines)
		}
		sites = append(sites, CallSite{
			Line:      lineNo,
			StartLine: start,
			Context:   append([]string{}, lines[start-1:end]...),
		})
	}
	return sites
}

func inRanges(line int, ranges [][2]int) bool {
	for _, r := range ranges {
		if line >= r[0] && line <= r[1] {
			return true
		}
	}
	return false
}
