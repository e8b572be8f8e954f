package similarity

import (
	"math"
	"strings"
	"unicode"
)

const maxVocabFeatures = 100

// englishStopwords are dropped before vectorization. IVR prompts are filler
// heavy ("to", "the", "for"), and keeping those words inflates similarity
// between unrelated menus.
var englishStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "can": {}, "do": {}, "for": {}, "from": {}, "has": {},
	"have": {}, "if": {}, "in": {}, "is": {}, "it": {}, "its": {}, "may": {},
	"of": {}, "on": {}, "or": {}, "our": {}, "so": {}, "that": {}, "the": {},
	"their": {}, "then": {}, "this": {}, "to": {}, "was": {}, "we": {},
	"will": {}, "with": {}, "you": {}, "your": {},
}

// TFIDF scores texts by cosine similarity over TF-IDF weighted unigram and
// bigram vectors. The vocabulary is capped at maxVocabFeatures terms in
// first-seen order, which bounds work per comparison regardless of
// transcript length.
type TFIDF struct{}

// NewTFIDF creates a TF-IDF strategy.
func NewTFIDF() TFIDF {
	return TFIDF{}
}

// Score implements Strategy.
func (TFIDF) Score(a, b string) float64 {
	termsA := ngrams(tokenize(a))
	termsB := ngrams(tokenize(b))
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0.0
	}

	// Vocabulary over both documents, capped, first-seen order.
	vocab := make(map[string]int)
	for _, t := range termsA {
		if len(vocab) >= maxVocabFeatures {
			break
		}
		if _, ok := vocab[t]; !ok {
			vocab[t] = len(vocab)
		}
	}
	for _, t := range termsB {
		if len(vocab) >= maxVocabFeatures {
			break
		}
		if _, ok := vocab[t]; !ok {
			vocab[t] = len(vocab)
		}
	}

	vecA := termFreq(termsA, vocab)
	vecB := termFreq(termsB, vocab)

	// IDF over the two-document corpus: log(n/df)+1 with n=2.
	for _, idx := range vocab {
		df := 0
		if _, ok := vecA[idx]; ok {
			df++
		}
		if _, ok := vecB[idx]; ok {
			df++
		}
		idf := math.Log(2.0/float64(df)) + 1.0
		if v, ok := vecA[idx]; ok {
			vecA[idx] = v * idf
		}
		if v, ok := vecB[idx]; ok {
			vecB[idx] = v * idf
		}
	}

	return clamp01(cosine(vecA, vecB))
}

func tokenize(s string) []string {
	s = strings.ToLower(s)
	var tokens []string
	var cur strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cur.WriteRune(r)
		} else if cur.Len() > 0 {
			tokens = appendToken(tokens, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		tokens = appendToken(tokens, cur.String())
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	if _, stop := englishStopwords[tok]; stop {
		return tokens
	}
	return append(tokens, tok)
}

// ngrams returns unigrams plus adjacent bigrams.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func termFreq(terms []string, vocab map[string]int) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range terms {
		if idx, ok := vocab[t]; ok {
			vec[idx]++
		}
	}
	return vec
}

func cosine(a, b map[int]float64) float64 {
	var dot, normA, normB float64
	for i, va := range a {
		if vb, ok := b[i]; ok {
			dot += va * vb
		}
		normA += va * va
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
