// Package outline is the outline/context renderer (C7): it renders a
// file's raw text with leaf definition bodies collapsed, or prints the
// full text of named symbols when asked to expand.
package outline

import (
	"fmt"
	"strings"

	"github.com/sgi-dev/sgi/internal/suggest"
	"github.com/sgi-dev/sgi/internal/types"
)

type Params struct {
	Source        string
	Definitions   []types.Definition
	ExpandSymbols []string
	CallerCounts  map[string]int // symbol name -> external caller count
}

type Result struct {
	Text        string
	Suggestions []string // populated only when an ExpandSymbols entry had no match
}

// Render produces the collapsed outline, or — when ExpandSymbols is
// non-empty — the full text of each matching definition (§4.7).
func Render(p Params) Result {
	lines := strings.Split(p.Source, "\n")

	if len(p.ExpandSymbols) > 0 {
		return renderExpanded(lines, p.Definitions, p.ExpandSymbols)
	}
	return Result{Text: renderCollapsed(lines, p.Definitions, p.CallerCounts)}
}

func renderExpanded(lines []string, defs []types.Definition, names []string) Result {
	allNames := make([]string, 0, len(defs))
	byName := make(map[string][]types.Definition, len(defs))
	for _, d := range defs {
		byName[d.Name] = append(byName[d.Name], d)
		allNames = append(allNames, d.Name)
	}

	var sb strings.Builder
	var suggestions []string
	for _, name := range names {
		matches, ok := byName[name]
		if !ok {
			suggestions = append(suggestions, suggest.Symbols(name, allNames, 5)...)
			continue
		}
		for _, d := range matches {
			fmt.Fprintf(&sb, "%s:%d-%d\n", d.Name, d.LineStart, d.LineEnd)
			writeLines(&sb, lines, d.LineStart, d.LineEnd)
		}
	}
	return Result{Text: sb.String(), Suggestions: suggestions}
}

func renderCollapsed(lines []string, defs []types.Definition, callerCounts map[string]int) string {
	leaves := leafDefinitions(defs)

	hidden := make(map[int]bool)
	collapseAt := make(map[int]string)
	for _, d := range leaves {
		bodyLines := d.LineEnd - d.LineStart
		if bodyLines < 2 {
			continue
		}
		for ln := d.LineStart + 1; ln <= d.LineEnd; ln++ {
			hidden[ln] = true
		}
		suffix := ""
		if n, ok := callerCounts[d.Name]; ok {
			suffix = fmt.Sprintf(" ← %d callers", n)
		}
		collapseAt[d.LineStart+1] = fmt.Sprintf("... (%d lines)%s", bodyLines, suffix)
	}

	var sb strings.Builder
	for i, line := range lines {
		lineNo := i + 1
		if text, ok := collapseAt[lineNo]; ok {
			fmt.Fprintf(&sb, "%6d│ %s\n", lineNo, text)
			continue
		}
		if hidden[lineNo] {
			continue
		}
		fmt.Fprintf(&sb, "%6d│ %s\n", lineNo, line)
	}
	return sb.String()
}

// leafDefinitions returns definitions that don't enclose any other
// definition in defs — a container is any definition whose line range
// strictly contains another's.
func leafDefinitions(defs []types.Definition) []types.Definition {
	isContainer := make(map[string]bool, len(defs))
	for i, a := range defs {
		for j, b := range defs {
			if i == j {
				continue
			}
			if a.LineStart <= b.LineStart && b.LineEnd <= a.LineEnd &&
				(a.LineStart != b.LineStart || a.LineEnd != b.LineEnd) {
				isContainer[a.SymbolKey()] = true
			}
		}
	}
	var leaves []types.Definition
	for _, d := range defs {
		if !isContainer[d.SymbolKey()] {
			leaves = append(leaves, d)
		}
	}
	return leaves
}

func writeLines(sb *strings.Builder, lines []string, start, end int) {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	for ln := start; ln <= end; ln++ {
		fmt.Fprintf(sb, "%6d│ %s\n", ln, lines[ln-1])
	}
}
