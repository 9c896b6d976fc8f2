// Package align assigns time intervals to lyric words by matching them against
// timestamped transcription words.
//
// The engine is a two-pointer greedy scan: at each step it compares the
// pending lyric word with the current transcribed word, then tries merging up
// to Lookahead lyric words into one transcribed word (N:1) and one lyric word
// against up to Lookahead transcribed words (1:N). The best candidate is
// accepted or the transcribed word is skipped. Lyric words still pending when
// the transcription runs out are dropped and reported in Stats.
//
// Align is a pure function of its inputs and is safe for concurrent use.
package align
