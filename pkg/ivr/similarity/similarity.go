// Package similarity scores how alike two transcripts are, for repeated-menu
// detection. The strategy is chosen once when the loop detector is built and
// never swapped mid-session.
package similarity

// Strategy computes a similarity score for two texts. Scores are always in
// [0, 1]: 0 means no overlap, 1 means effectively identical.
type Strategy interface {
	Score(a, b string) float64
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
