package match

import (
	"cmp"
	"slices"
)

// Threshold is the minimum similarity for a candidate to be suggested.
const Threshold = 0.6

// Candidate is a declared name with its similarity to the queried one.
type Candidate struct {
	Name  string
	Score float64
}

// Rank returns the candidates scoring at least Threshold against name, best
// first. Ties keep the order of candidates.
func Rank(name string, candidates []string) []Candidate {
	var out []Candidate

	for _, c := range candidates {
		if score := Similarity(name, c); score >= Threshold {
			out = append(out, Candidate{Name: c, Score: score})
		}
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return out
}

// Closest returns the best suggestion for name among candidates.
func Closest(name string, candidates []string) (string, bool) {
	ranked := Rank(name, candidates)
	if len(ranked) == 0 {
		return "", false
	}

	return ranked[0].Name, true
}
