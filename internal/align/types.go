package align

import "fmt"

// TranscribedToken is one recognized speech unit. Text is raw recognizer
// output; Start and End are seconds and are passed through unvalidated.
type TranscribedToken struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// AlignedToken is one lyric unit with the interval of the transcribed words it
// matched. Text holds a single lyric word, or several joined by one space when
// they were merged against a single transcribed word.
type AlignedToken struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Arity describes how many lyric and transcribed words a match consumed.
type Arity int

const (
	// OneToOne matches one lyric word to one transcribed word.
	OneToOne Arity = iota
	// ManyToOne merges several lyric words into one transcribed word.
	ManyToOne
	// OneToMany merges several transcribed words into one lyric word.
	OneToMany
)

func (a Arity) String() string {
	switch a {
	case OneToOne:
		return "1:1"
	case ManyToOne:
		return "N:1"
	case OneToMany:
		return "1:N"
	default:
		return fmt.Sprintf("arity(%d)", int(a))
	}
}

// Stats summarizes one alignment run.
type Stats struct {
	OneToOne  int
	ManyToOne int
	OneToMany int

	// SkippedTranscription counts transcribed words passed over without a match.
	SkippedTranscription int
	// UnusedTranscription counts transcribed words left when the lyrics ran out.
	UnusedTranscription int
	// ReferenceMatched counts lyric words covered by emitted tokens.
	ReferenceMatched int
	// DroppedReference counts trailing lyric words that never matched.
	DroppedReference int
	ReferenceTotal   int
}

// Matches returns the number of emitted tokens.
func (s Stats) Matches() int {
	return s.OneToOne + s.ManyToOne + s.OneToMany
}

// Coverage returns the fraction of lyric words that received timing.
func (s Stats) Coverage() float64 {
	if s.ReferenceTotal == 0 {
		return 0
	}
	return float64(s.ReferenceMatched) / float64(s.ReferenceTotal)
}

func (s *Stats) record(a Arity) {
	switch a {
	case OneToOne:
		s.OneToOne++
	case ManyToOne:
		s.ManyToOne++
	case OneToMany:
		s.OneToMany++
	}
}
