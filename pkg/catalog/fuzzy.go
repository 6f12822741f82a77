package catalog

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// negativePenalty is added to a candidate's distance for every negative
// query term it contains.
const negativePenalty = 0.3

// foldTransform strips diacritics so "Beyoncé" and "Beyonce" rank the same.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

type rankedCandidate struct {
	index    int
	distance float64
}

// rankCandidates scores each candidate against the query and returns the
// indices of those within threshold, best first. Distance runs 0 (perfect)
// to 1 (unrelated). Query terms prefixed with '!' are negative: they do not
// take part in similarity but penalize candidates containing them.
func rankCandidates(candidates []string, query string, threshold float64) []rankedCandidate {
	positive, negative := splitQuery(query)
	if positive == "" {
		return nil
	}

	metric := metrics.NewSorensenDice()
	needle := foldText(positive)

	var ranked []rankedCandidate
	for i, cand := range candidates {
		hay := foldText(cand)

		d := 1 - strutil.Similarity(hay, needle, metric)
		for _, neg := range negative {
			if strings.Contains(hay, neg) {
				d += negativePenalty
			}
		}

		if d <= threshold {
			ranked = append(ranked, rankedCandidate{index: i, distance: d})
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].distance < ranked[b].distance
	})
	return ranked
}

func splitQuery(query string) (positive string, negative []string) {
	var keep []string
	for _, tok := range strings.Fields(query) {
		if neg, ok := strings.CutPrefix(tok, "!"); ok {
			if neg != "" {
				negative = append(negative, foldText(neg))
			}
			continue
		}
		keep = append(keep, tok)
	}
	return strings.Join(keep, " "), negative
}

func foldText(s string) string {
	folded, _, err := transform.String(foldTransform, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
