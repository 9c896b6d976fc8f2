package textutil

import "unicode"

// CosineSimilarity compares two fingerprints; nil or empty vectors score 0.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	if len(b.counts) < len(a.counts) {
		a, b = b, a
	}
	dot := 0
	for word, n := range a.counts {
		dot += n * b.counts[word]
	}
	return float64(dot) / (a.norm * b.norm)
}

// DiceCoefficient scores two strings by their shared adjacent-rune pairs.
//
// Whitespace is ignored. Identical strings score 1; strings shorter than two
// runes that are not identical score 0. Otherwise the result is
// 2*shared/(pairs(a)+pairs(b)), where shared counts each bigram at most as
// many times as it occurs in both inputs. The score is symmetric and bounded
// in [0,1].
func DiceCoefficient(a, b string) float64 {
	first := stripSpace(a)
	second := stripSpace(b)
	if string(first) == string(second) {
		return 1
	}
	if len(first) < 2 || len(second) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(first)-1)
	for i := 0; i < len(first)-1; i++ {
		counts[[2]rune{first[i], first[i+1]}]++
	}

	shared := 0
	for i := 0; i < len(second)-1; i++ {
		pair := [2]rune{second[i], second[i+1]}
		if counts[pair] > 0 {
			counts[pair]--
			shared++
		}
	}

	return 2 * float64(shared) / float64(len(first)+len(second)-2)
}

func stripSpace(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
