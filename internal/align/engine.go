package align

import (
	"strings"

	"lyricalign/internal/textnorm"
	"lyricalign/internal/textutil"
)

const (
	// DefaultThreshold is the minimum similarity for a fuzzy match.
	DefaultThreshold = 0.85
	// MaxLookahead is the default number of words merged on either side.
	MaxLookahead = 3
)

// Options tunes an alignment run. The zero value is not the default: a zero
// Threshold accepts every candidate. Use DefaultOptions as a base.
type Options struct {
	Threshold float64
	Policy    Policy
	// Lookahead bounds combination search; values <= 0 or above
	// MaxLookahead select MaxLookahead and 1 disables it.
	Lookahead int
}

// DefaultOptions returns the standard similarity-policy settings.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Policy:    PolicySimilarity,
		Lookahead: MaxLookahead,
	}
}

// Align matches normalized lyric words against transcribed words and returns
// the timed lyric units in lyric order.
func Align(reference []string, transcription []TranscribedToken, opts Options) []AlignedToken {
	aligned, _ := AlignWithStats(reference, transcription, opts)
	return aligned
}

// AlignWithStats is Align plus a summary of how the scan went.
func AlignWithStats(reference []string, transcription []TranscribedToken, opts Options) ([]AlignedToken, Stats) {
	lookahead := opts.Lookahead
	if lookahead <= 0 {
		lookahead = MaxLookahead
	}
	lookahead = min(lookahead, MaxLookahead)
	s := &scanner{
		reference:     reference,
		transcription: transcription,
		spoken:        make([]string, len(transcription)),
		threshold:     opts.Threshold,
		policy:        opts.Policy,
		lookahead:     lookahead,
	}
	for i, tok := range transcription {
		s.spoken[i] = textnorm.NormalizeToken(tok.Text)
	}
	return s.run()
}

// candidate is one match hypothesis for the current pointer pair.
type candidate struct {
	arity      Arity
	similarity float64
	anchor     bool
	refEnd     int
	transEnd   int
	start      float64
	end        float64
	words      []string
}

type scanner struct {
	reference     []string
	transcription []TranscribedToken
	spoken        []string
	threshold     float64
	policy        Policy
	lookahead     int
}

func (s *scanner) run() ([]AlignedToken, Stats) {
	stats := Stats{ReferenceTotal: len(s.reference)}
	aligned := make([]AlignedToken, 0, min(len(s.reference), len(s.transcription)))

	l, w := 0, 0
	for l < len(s.reference) && w < len(s.transcription) {
		best := s.best(l, w)
		if !s.accept(best, l, w) {
			stats.SkippedTranscription++
			w++
			continue
		}

		text := s.reference[l]
		if best.arity == ManyToOne {
			text = strings.Join(best.words, " ")
		}
		aligned = append(aligned, AlignedToken{Text: text, Start: best.start, End: best.end})
		stats.record(best.arity)
		stats.ReferenceMatched += best.refEnd - l
		l, w = best.refEnd, best.transEnd
	}

	stats.DroppedReference = len(s.reference) - l
	stats.UnusedTranscription = len(s.transcription) - w
	return aligned, stats
}

func (s *scanner) best(l, w int) candidate {
	refWord := s.reference[l]
	spoken := s.spoken[w]
	tok := s.transcription[w]

	best := candidate{
		arity:      OneToOne,
		similarity: textutil.DiceCoefficient(refWord, spoken),
		anchor:     anchorMatch(refWord, spoken),
		refEnd:     l + 1,
		transEnd:   w + 1,
		start:      tok.Start,
		end:        tok.End,
	}
	if s.policy == PolicyAnchor && best.anchor {
		return best
	}

	for k := 2; k <= s.lookahead && l+k <= len(s.reference); k++ {
		words := s.reference[l : l+k]
		combined := strings.Join(words, "")
		c := candidate{
			arity:      ManyToOne,
			similarity: textutil.DiceCoefficient(combined, spoken),
			anchor:     anchorMatch(combined, spoken),
			refEnd:     l + k,
			transEnd:   w + 1,
			start:      tok.Start,
			end:        tok.End,
			words:      words,
		}
		if s.policy.better(c, best) {
			best = c
		}
	}

	for k := 2; k <= s.lookahead && w+k <= len(s.transcription); k++ {
		combined := strings.Join(s.spoken[w:w+k], "")
		c := candidate{
			arity:      OneToMany,
			similarity: textutil.DiceCoefficient(refWord, combined),
			anchor:     anchorMatch(refWord, combined),
			refEnd:     l + 1,
			transEnd:   w + k,
			start:      tok.Start,
			end:        s.transcription[w+k-1].End,
		}
		if s.policy.better(c, best) {
			best = c
		}
	}

	return best
}

func (s *scanner) accept(best candidate, l, w int) bool {
	if best.similarity >= s.threshold {
		return true
	}
	if s.reference[l] == s.spoken[w] {
		return true
	}
	return s.policy == PolicyAnchor && best.anchor
}
