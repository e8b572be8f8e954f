package similarity

import "strings"

// Jaccard scores texts by word-set overlap: |A∩B| / |A∪B| over
// whitespace-separated lowercased tokens. It is the cheap fallback when the
// TF-IDF strategy is not wanted; menus repeat near-verbatim, so set overlap
// is usually enough.
type Jaccard struct{}

// NewJaccard creates a Jaccard strategy.
func NewJaccard() Jaccard {
	return Jaccard{}
}

// Score implements Strategy.
func (Jaccard) Score(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}
	var inter int
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return clamp01(float64(inter) / float64(union))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
