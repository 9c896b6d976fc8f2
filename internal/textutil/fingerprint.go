package textutil

import "math"

// minTermLength drops short function words ("a", "in", "of") that every song
// shares and that would otherwise dominate the vector.
const minTermLength = 3

// Fingerprint is a term-frequency vector over the words of a document.
type Fingerprint struct {
	counts map[string]int
	norm   float64
}

// NewFingerprint counts already-normalized words. It returns nil when no word
// reaches minTermLength.
func NewFingerprint(words []string) *Fingerprint {
	counts := make(map[string]int, len(words))
	for _, word := range words {
		if len(word) >= minTermLength {
			counts[word]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	sum := 0
	for _, n := range counts {
		sum += n * n
	}
	return &Fingerprint{counts: counts, norm: math.Sqrt(float64(sum))}
}

// Terms returns the number of distinct words counted.
func (f *Fingerprint) Terms() int {
	if f == nil {
		return 0
	}
	return len(f.counts)
}
