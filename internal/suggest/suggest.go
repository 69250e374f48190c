// Package suggest offers symbol-name suggestions when a query names a
// symbol the graph doesn't have, via Jaro-Winkler similarity. Grounded on
// the teacher's semantic.FuzzyMatcher, trimmed to the one algorithm and one
// call shape the query engine needs.
package suggest

import (
	"sort"

	"github.com/hbollon/go-edlib"
)

const threshold = 0.6

// Symbols returns up to limit candidates similar to name, most similar
// first. Unlike file-not-found suggestions (an exact substring match is
// usually right for a typo'd path) a misremembered symbol name benefits
// from edit-distance matching.
func Symbols(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}
	var matches []scored
	for _, c := range candidates {
		if c == name {
			continue
		}
		s, err := edlib.StringsSimilarity(name, c, edlib.JaroWinkler)
		if err != nil || float64(s) < threshold {
			continue
		}
		matches = append(matches, scored{name: c, score: float64(s)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].name < matches[j].name
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
