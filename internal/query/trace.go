package query

import (
	"regexp"

	"github.com/sgi-dev/sgi/internal/graph"
)

type TraceParams struct {
	Symbol string
	File   string
	Depth  int // default 3
}

type TraceNode struct {
	Name     string
	File     string
	Line     int
	IsModule bool
	Children []*TraceNode
}

type TraceResult struct {
	Root        *TraceNode
	Suggestions []string
}

// Trace walks upward in the call graph from symbol, capped at depth hops,
// deduplicating visited (file, name) pairs to break cycles (§4.6 trace).
func (e *Engine) Trace(p TraceParams) (TraceResult, error) {
	if p.Depth <= 0 {
		p.Depth = 3
	}
	if _, err := e.ensure(); err != nil {
		return TraceResult{}, err
	}
	g := e.Cache.Graph()
	snap := e.snapshot()

	candidates := filterByFile(g, g.ByName(p.Symbol), p.File, e)
	if len(candidates) == 0 {
		return TraceResult{Suggestions: e.suggestSymbolNames(snap, p.Symbol)}, nil
	}
	target, _ := e.symbolOf(e.bestByRank(candidates, snap))

	visited := map[string]bool{target.File + "::" + target.Name: true}
	root := e.buildTraceNode(g, target.Name, target.File, target.LineStart, p.Depth, visited)
	return TraceResult{Root: root}, nil
}

func (e *Engine) buildTraceNode(g *graph.Graph, name, file string, line, depth int, visited map[string]bool) *TraceNode {
	node := &TraceNode{Name: name, File: file, Line: line}
	if depth <= 0 {
		return node
	}

	key := file + "::" + name
	for _, callerFile := range g.ReferencersOf(key) {
		source, err := e.readFile(callerFile)
		if err != nil {
			continue
		}
		lines := splitLines(string(source))
		callLine := firstCallLine(lines, name)
		if callLine == 0 {
			node.Children = append(node.Children, &TraceNode{Name: "<module>", File: callerFile, IsModule: true})
			continue
		}
		containing := containingDefinition(g, callerFile, callLine)
		if containing == nil {
			node.Children = append(node.Children, &TraceNode{Name: "<module>", File: callerFile, Line: callLine, IsModule: true})
			continue
		}
		pairKey := containing.File + "::" + containing.Name
		if visited[pairKey] {
			continue
		}
		visited[pairKey] = true
		child := e.buildTraceNode(g, containing.Name, containing.File, callLine, depth-1, visited)
		node.Children = append(node.Children, child)
	}
	return node
}

// containingDefinition finds the innermost definition in file whose line
// range contains line.
func containingDefinition(g *graph.Graph, file string, line int) *graph.SymbolNode {
	var best *graph.SymbolNode
	for _, key := range g.SymbolsOfFile(file) {
		sym, ok := g.Symbol(key)
		if !ok {
			continue
		}
		if line < sym.LineStart || line > sym.LineEnd {
			continue
		}
		if best == nil || (sym.LineEnd-sym.LineStart) < (best.LineEnd-best.LineStart) {
			best = sym
		}
	}
	return best
}

func firstCallLine(lines []string, name string) int {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
	for i, line := range lines {
		if re.MatchString(line) {
			return i + 1
		}
	}
	return 0
}
