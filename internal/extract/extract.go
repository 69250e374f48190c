// Package extract is the file extractor (C2): parse one source buffer with
// the right grammar, run the definition and reference queries, and emit a
// FileSymbols record. A grammar or query failure for a single file is
// never fatal — it simply yields no symbols for that file.
package extract

import (
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sgi-dev/sgi/internal/grammar"
	"github.com/sgi-dev/sgi/internal/types"
)

// Extractor runs the grammar registry's queries over source buffers.
type Extractor struct {
	registry *grammar.Registry
}

// New builds an Extractor over the given grammar registry.
func New(registry *grammar.Registry) *Extractor {
	return &Extractor{registry: registry}
}

// CanHandle reports whether a grammar is registered for path's extension.
func (e *Extractor) CanHandle(path string) bool {
	_, ok := e.registry.Resolve(filepath.Ext(path))
	return ok
}

// Extract parses source and returns the file's definitions and references.
// relPath is the path recorded on every Definition/Reference (project
// relative, not absolute). Returns ok=false when the extension is
// unsupported; a parse/query failure that still yields a tree returns
// ok=true with whatever partial symbols were recoverable.
func (e *Extractor) Extract(relPath string, source []byte) (*types.FileSymbols, bool) {
	g, ok := e.registry.Resolve(filepath.Ext(relPath))
	if !ok {
		return nil, false
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(g.Language); err != nil {
		return &types.FileSymbols{File: relPath}, true
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return &types.FileSymbols{File: relPath}, true
	}
	defer tree.Close()
	root := tree.RootNode()

	fs := &types.FileSymbols{File: relPath}
	fs.Definitions = extractDefinitions(g, root, source, relPath)
	fs.References = extractReferences(g, root, source, relPath)
	return fs, true
}

func extractDefinitions(g *grammar.Grammar, root *tree_sitter.Node, source []byte, relPath string) []types.Definition {
	if g.DefQuery == nil {
		return nil
	}
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(g.DefQuery, root, source)
	names := g.DefQuery.CaptureNames()

	var defs []types.Definition
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		var nameNode, defNode *tree_sitter.Node
		for _, c := range m.Captures {
			node := c.Node
			switch names[c.Index] {
			case "name":
				n := node
				nameNode = &n
			case "definition":
				n := node
				defNode = &n
			}
		}
		if nameNode == nil {
			continue // @name is required; skip matches without it.
		}
		if defNode == nil {
			defNode = nameNode // falls back to the name node.
		}

		name := nodeText(nameNode, source)
		if name == "" {
			continue
		}
		start := defNode.StartPosition()
		end := defNode.EndPosition()
		kind := g.KindOf(defNode.Kind())

		defs = append(defs, types.Definition{
			Name:      name,
			Kind:      kind,
			File:      relPath,
			LineStart: int(start.Row) + 1,
			LineEnd:   int(end.Row) + 1,
			Signature: buildSignature(g.LanguageID, defNode, source),
		})
	}
	return defs
}

func extractReferences(g *grammar.Grammar, root *tree_sitter.Node, source []byte, relPath string) []types.Reference {
	if g.RefQuery == nil {
		return nil
	}
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	matches := qc.Matches(g.RefQuery, root, source)
	names := g.RefQuery.CaptureNames()

	var refs []types.Reference
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		for _, c := range m.Captures {
			if names[c.Index] != "reference" {
				continue
			}
			node := c.Node
			name := nodeText(&node, source)
			name = cleanReferenceName(name)
			if name == "" {
				continue
			}
			refs = append(refs, types.Reference{
				Name: name,
				File: relPath,
				Line: int(node.StartPosition().Row) + 1,
			})
		}
	}
	return refs
}

// cleanReferenceName strips surrounding quotes from string-literal captures
// (import paths) and takes the last segment of a dotted/scoped path so it
// lines up with how definitions are named.
func cleanReferenceName(raw string) string {
	s := strings.Trim(raw, `"'`)
	if s == "" {
		return ""
	}
	if i := strings.LastIndexAny(s, "./\\:"); i >= 0 && i+1 < len(s) {
		return s[i+1:]
	}
	return s
}

func nodeText(node *tree_sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > uint(len(source)) || end > uint(len(source)) || start > end {
		return ""
	}
	return string(source[start:end])
}

// indentationLanguages render signatures up to the terminating ':' per
// §4.2's signature extraction policy.
var indentationLanguages = map[string]bool{
	"python": true,
}

func buildSignature(languageID string, defNode *tree_sitter.Node, source []byte) string {
	full := nodeText(defNode, source)
	if indentationLanguages[languageID] {
		return signatureIndentation(full)
	}
	return signatureBrace(full)
}

// signatureBrace takes text up to the first of (opening '{', first line
// break, end of text), caps at 200 chars.
func signatureBrace(full string) string {
	head := full
	if i := strings.IndexByte(head, '{'); i >= 0 {
		head = head[:i]
	}
	if i := strings.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	return types.NormalizeSignature(head, types.BraceSignatureCap)
}

// signatureIndentation locates the terminating ':' after the closing ')'
// (or the first ':' when there are no parentheses), caps at 300 chars.
func signatureIndentation(full string) string {
	closeParen := strings.LastIndexByte(headLine(full), ')')
	search := full
	if closeParen >= 0 {
		search = full[closeParen:]
	}
	colon := strings.IndexByte(search, ':')
	var head string
	if colon >= 0 {
		if closeParen >= 0 {
			head = full[:closeParen+colon+1]
		} else {
			head = search[:colon+1]
		}
	} else {
		head = headLine(full)
	}
	return types.NormalizeSignature(head, types.IndentSignatureCap)
}

// headLine returns everything up to the first line break (or the whole
// string if there isn't one); used when no terminating ':' is found.
func headLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
