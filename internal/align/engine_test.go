package align

import (
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func tok(text string, start, end float64) TranscribedToken {
	return TranscribedToken{Text: text, Start: start, End: end}
}

func TestAlignScenarios(t *testing.T) {
	tests := []struct {
		name      string
		reference []string
		spoken    []TranscribedToken
		want      []AlignedToken
	}{
		{
			name:      "one to one",
			reference: []string{"hello", "world"},
			spoken:    []TranscribedToken{tok("hello", 0.0, 0.5), tok("world", 0.5, 1.0)},
			want:      []AlignedToken{{"hello", 0.0, 0.5}, {"world", 0.5, 1.0}},
		},
		{
			name:      "many lyric words to one spoken word",
			reference: []string{"mini", "bar"},
			spoken:    []TranscribedToken{tok("minibar", 0.0, 0.8)},
			want:      []AlignedToken{{"mini bar", 0.0, 0.8}},
		},
		{
			name:      "one lyric word to many spoken words",
			reference: []string{"minibar"},
			spoken:    []TranscribedToken{tok("mini", 0.0, 0.4), tok("bar", 0.4, 0.8)},
			want:      []AlignedToken{{"minibar", 0.0, 0.8}},
		},
		{
			name:      "unmatched spoken word skipped",
			reference: []string{"hello"},
			spoken:    []TranscribedToken{tok("uh", 0.0, 0.2), tok("hello", 0.2, 0.6)},
			want:      []AlignedToken{{"hello", 0.2, 0.6}},
		},
		{
			name:      "trailing lyrics dropped",
			reference: []string{"a", "b", "c"},
			spoken:    []TranscribedToken{tok("a", 0, 1)},
			want:      []AlignedToken{{"a", 0, 1}},
		},
		{
			name:      "raw transcription text normalized",
			reference: []string{"don't", "stop"},
			spoken:    []TranscribedToken{tok("Don't", 1, 2), tok("STOP!", 2, 3)},
			want:      []AlignedToken{{"don't", 1, 2}, {"stop", 2, 3}},
		},
		{
			name:      "three lyric words merged",
			reference: []string{"to", "day", "long", "song"},
			spoken:    []TranscribedToken{tok("todaylong", 0, 1), tok("song", 1, 2)},
			want:      []AlignedToken{{"to day long", 0, 1}, {"song", 1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align(tt.reference, tt.spoken, DefaultOptions())
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Align() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	if got := Align(nil, []TranscribedToken{tok("hello", 0, 1)}, DefaultOptions()); len(got) != 0 {
		t.Fatalf("expected empty result for empty lyrics, got %+v", got)
	}
	got, stats := AlignWithStats([]string{"hello"}, nil, DefaultOptions())
	if len(got) != 0 {
		t.Fatalf("expected empty result for empty transcription, got %+v", got)
	}
	if stats.DroppedReference != 1 || stats.ReferenceTotal != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestAlignStats(t *testing.T) {
	reference := []string{"mini", "bar", "minibar", "hello", "lost", "words"}
	spoken := []TranscribedToken{
		tok("minibar", 0, 1),
		tok("mini", 1, 2), tok("bar", 2, 3),
		tok("um", 3, 4),
		tok("hello", 4, 5),
	}
	got, stats := AlignWithStats(reference, spoken, DefaultOptions())
	if len(got) != 3 {
		t.Fatalf("expected 3 tokens, got %+v", got)
	}
	want := Stats{
		OneToOne:             1,
		ManyToOne:            1,
		OneToMany:            1,
		SkippedTranscription: 1,
		UnusedTranscription:  0,
		ReferenceMatched:     4,
		DroppedReference:     2,
		ReferenceTotal:       6,
	}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
	if stats.Matches() != 3 {
		t.Fatalf("Matches() = %d, want 3", stats.Matches())
	}
	if math.Abs(stats.Coverage()-4.0/6.0) > 1e-9 {
		t.Fatalf("Coverage() = %v", stats.Coverage())
	}
}

func TestAlignThresholdBoundary(t *testing.T) {
	// Dice("mini", "minibar") is exactly 2/3.
	reference := []string{"mini"}
	spoken := []TranscribedToken{tok("minibar", 0, 1)}

	opts := DefaultOptions()
	opts.Threshold = 2.0 / 3.0
	if got := Align(reference, spoken, opts); len(got) != 1 {
		t.Fatalf("expected similarity equal to threshold to be accepted, got %+v", got)
	}

	opts.Threshold = math.Nextafter(2.0/3.0, 1)
	if got := Align(reference, spoken, opts); len(got) != 0 {
		t.Fatalf("expected similarity below threshold to be rejected, got %+v", got)
	}
}

func TestAlignThresholdNotClamped(t *testing.T) {
	reference := []string{"x", "y"}
	spoken := []TranscribedToken{tok("foo", 0, 1), tok("bar", 1, 2)}

	opts := DefaultOptions()
	opts.Threshold = 0
	got := Align(reference, spoken, opts)
	want := []AlignedToken{{"x", 0, 1}, {"y", 1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("threshold 0: got %+v, want %+v", got, want)
	}

	opts.Threshold = 1.5
	got, stats := AlignWithStats([]string{"rock"}, []TranscribedToken{tok("rok", 0, 1), tok("Rock!", 1, 2)}, opts)
	want = []AlignedToken{{"rock", 1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("threshold 1.5: got %+v, want %+v", got, want)
	}
	if stats.SkippedTranscription != 1 {
		t.Fatalf("expected one skipped token, got %+v", stats)
	}
}

func TestAlignExactMatchWinsTies(t *testing.T) {
	// "mini" == "mini" scores 1 and no later candidate can be strictly greater,
	// so the lowest arity wins even though "minibar" would also score 1.
	reference := []string{"mini", "bar"}
	spoken := []TranscribedToken{tok("mini", 0, 1), tok("bar", 1, 2)}
	got := Align(reference, spoken, DefaultOptions())
	want := []AlignedToken{{"mini", 0, 1}, {"bar", 1, 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAlignPassesThroughInvertedIntervals(t *testing.T) {
	got := Align([]string{"late"}, []TranscribedToken{tok("late", 5, 4)}, DefaultOptions())
	want := []AlignedToken{{"late", 5, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAlignLookaheadOneDisablesCombinations(t *testing.T) {
	opts := DefaultOptions()
	opts.Lookahead = 1
	got := Align([]string{"mini", "bar"}, []TranscribedToken{tok("minibar", 0, 1)}, opts)
	if len(got) != 0 {
		t.Fatalf("expected no match without combination search, got %+v", got)
	}
}

func TestAlignLookaheadCappedAtMax(t *testing.T) {
	reference := []string{"ab", "cd", "ef", "gh"}
	spoken := []TranscribedToken{tok("abcdefgh", 0, 1)}
	for _, lookahead := range []int{MaxLookahead, MaxLookahead + 2} {
		opts := DefaultOptions()
		opts.Lookahead = lookahead
		if got := Align(reference, spoken, opts); len(got) != 0 {
			t.Fatalf("lookahead %d: expected no four-word merge, got %+v", lookahead, got)
		}
	}
}

func TestAlignAnchorPolicy(t *testing.T) {
	anchor := DefaultOptions()
	anchor.Policy = PolicyAnchor

	t.Run("anchored pair accepted below threshold", func(t *testing.T) {
		reference := []string{"rocking"}
		spoken := []TranscribedToken{tok("rolling", 0, 1)}
		if got := Align(reference, spoken, DefaultOptions()); len(got) != 0 {
			t.Fatalf("similarity policy should reject, got %+v", got)
		}
		got := Align(reference, spoken, anchor)
		want := []AlignedToken{{"rocking", 0, 1}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("anchored combination beats higher similarity", func(t *testing.T) {
		reference := []string{"hello", "ax"}
		spoken := []TranscribedToken{tok("hellox", 0, 1)}

		got := Align(reference, spoken, DefaultOptions())
		if want := []AlignedToken{{"hello", 0, 1}}; !reflect.DeepEqual(got, want) {
			t.Fatalf("similarity policy: got %+v, want %+v", got, want)
		}

		got = Align(reference, spoken, anchor)
		if want := []AlignedToken{{"hello ax", 0, 1}}; !reflect.DeepEqual(got, want) {
			t.Fatalf("anchor policy: got %+v, want %+v", got, want)
		}
	})

	t.Run("similarity ranks anchored candidates", func(t *testing.T) {
		// "minibar" and "minibarrr" both anchor; the exact merge wins.
		got := Align([]string{"mini", "bar", "rr"}, []TranscribedToken{tok("minibar", 0, 1)}, anchor)
		want := []AlignedToken{{"mini bar", 0, 1}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("unanchored candidates keep the strictly better score", func(t *testing.T) {
		loose := anchor
		loose.Threshold = 0.75
		// "ab" 0.5, "aby" 0.8, "abyq" 0.667; none shares both edges with "xaby".
		got, stats := AlignWithStats([]string{"ab", "y", "q"}, []TranscribedToken{tok("xaby", 0, 1)}, loose)
		want := []AlignedToken{{"ab y", 0, 1}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		if stats.DroppedReference != 1 {
			t.Fatalf("DroppedReference = %d, want 1", stats.DroppedReference)
		}
	})

	t.Run("anchored baseline skips combination search", func(t *testing.T) {
		reference := []string{"mini", "bar"}
		spoken := []TranscribedToken{tok("mini", 0, 1), tok("bar", 1, 2)}
		got := Align(reference, spoken, anchor)
		want := []AlignedToken{{"mini", 0, 1}, {"bar", 1, 2}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("no anchor falls back to threshold", func(t *testing.T) {
		got := Align([]string{"hello"}, []TranscribedToken{tok("uh", 0, 1), tok("hello", 1, 2)}, anchor)
		want := []AlignedToken{{"hello", 1, 2}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicySimilarity, false},
		{"similarity", PolicySimilarity, false},
		{" Anchor ", PolicyAnchor, false},
		{"first-last", PolicyAnchor, false},
		{"levenshtein", PolicySimilarity, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if PolicyAnchor.String() != "anchor" || PolicySimilarity.String() != "similarity" {
		t.Fatal("unexpected policy names")
	}
}

func TestAnchorMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"rocking", "rolling", true},
		{"a", "a", true},
		{"ab", "ba", false},
		{"", "", false},
		{"x", "", false},
	}
	for _, tt := range tests {
		if got := anchorMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("anchorMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

var vocabulary = []string{"la", "love", "you", "me", "mini", "bar", "night", "light", "oh", "yeah", "baby", "don't", "go"}

func randomInputs(r *rand.Rand) ([]string, []TranscribedToken) {
	reference := make([]string, r.Intn(20))
	for i := range reference {
		reference[i] = vocabulary[r.Intn(len(vocabulary))]
	}
	spoken := make([]TranscribedToken, r.Intn(20))
	at := 0.0
	for i := range spoken {
		word := vocabulary[r.Intn(len(vocabulary))]
		if r.Intn(4) == 0 {
			word = strings.ToUpper(word) + ","
		}
		spoken[i] = tok(word, at, at+0.25)
		at += 0.25
	}
	return reference, spoken
}

func TestAlignProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, policy := range []Policy{PolicySimilarity, PolicyAnchor} {
		opts := DefaultOptions()
		opts.Policy = policy
		for iter := 0; iter < 500; iter++ {
			reference, spoken := randomInputs(r)
			got, stats := AlignWithStats(reference, spoken, opts)

			again := Align(reference, spoken, opts)
			if !reflect.DeepEqual(got, again) {
				t.Fatalf("%v: non-deterministic output for %q", policy, reference)
			}

			if stats.ReferenceMatched+stats.DroppedReference != len(reference) {
				t.Fatalf("%v: reference accounting broken: %+v", policy, stats)
			}
			if stats.Matches() != len(got) {
				t.Fatalf("%v: matches %d != tokens %d", policy, stats.Matches(), len(got))
			}

			// Emitted words split back out are a prefix-ordered subsequence of the lyrics.
			var words []string
			for _, a := range got {
				words = append(words, strings.Split(a.Text, " ")...)
			}
			if !reflect.DeepEqual(words, reference[:len(words)]) && len(words) > 0 {
				t.Fatalf("%v: emitted words %q are not in lyric order %q", policy, words, reference)
			}

			// Intervals come from transcription boundaries and move forward.
			prevEnd := -1.0
			for _, a := range got {
				if !hasStart(spoken, a.Start) || !hasEnd(spoken, a.End) {
					t.Fatalf("%v: interval %+v not taken from transcription", policy, a)
				}
				if a.Start < prevEnd {
					t.Fatalf("%v: interval %+v overlaps previous end %v", policy, a, prevEnd)
				}
				prevEnd = a.End
			}
		}
	}
}

func TestAlignExactMatchAlwaysEmitted(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 2
	reference := []string{"oh", "yeah", "baby"}
	spoken := []TranscribedToken{tok("Oh!", 0, 1), tok("yeah", 1, 2), tok("Baby.", 2, 3)}
	got := Align(reference, spoken, opts)
	want := []AlignedToken{{"oh", 0, 1}, {"yeah", 1, 2}, {"baby", 2, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func hasStart(tokens []TranscribedToken, v float64) bool {
	for _, t := range tokens {
		if t.Start == v {
			return true
		}
	}
	return false
}

func hasEnd(tokens []TranscribedToken, v float64) bool {
	for _, t := range tokens {
		if t.End == v {
			return true
		}
	}
	return false
}

func TestArityString(t *testing.T) {
	if OneToOne.String() != "1:1" || ManyToOne.String() != "N:1" || OneToMany.String() != "1:N" {
		t.Fatal("unexpected arity labels")
	}
}
