package engine

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Similarity scores how alike two item texts are, in [0, 1]. The default
// term-frequency implementation can be swapped for an embeddings-based
// strategy without touching the rest of the pipeline.
type Similarity interface {
	Score(a, b string) float64
}

// TermFrequencySimilarity computes cosine similarity over sparse
// term-frequency vectors.
type TermFrequencySimilarity struct{}

// Score returns the cosine of the two term-frequency vectors.
func (TermFrequencySimilarity) Score(a, b string) float64 {
	va := termVector(a)
	vb := termVector(b)
	if len(va) == 0 || len(vb) == 0 {
		return 0
	}
	var dot, na, nb float64
	for term, ca := range va {
		if cb, ok := vb[term]; ok {
			dot += ca * cb
		}
		na += ca * ca
	}
	for _, cb := range vb {
		nb += cb * cb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// termVector tokenizes lower-cased text on non-alphanumeric boundaries.
func termVector(text string) map[string]float64 {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	v := make(map[string]float64, len(fields))
	for _, f := range fields {
		v[f]++
	}
	return v
}

// minSimilarityMatches is the smallest survivor count for the text filter
// to take effect; below it the unfiltered set is used.
const minSimilarityMatches = 3

// selectComparables keeps samples whose title is at least threshold-similar
// to the target text. Too few survivors makes this a no-op with a warning.
// The second return is the match count, used for the confidence penalty.
func selectComparables(comps []Comparable, sim Similarity, target string, threshold float64, warnings *[]string) ([]Comparable, int) {
	kept := make([]Comparable, 0, len(comps))
	for _, c := range comps {
		if c.Title == "" {
			continue
		}
		if sim.Score(target, c.Title) >= threshold {
			kept = append(kept, c)
		}
	}
	if len(kept) < minSimilarityMatches {
		*warnings = append(*warnings, fmt.Sprintf("Only %d comparables matched the target text, using all", len(kept)))
		return comps, len(kept)
	}
	return kept, len(kept)
}
