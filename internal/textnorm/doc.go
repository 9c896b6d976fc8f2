// Package textnorm normalizes lyric documents and transcribed words into the
// comparable form the aligner works with.
//
// Both entry points lowercase with Unicode case mapping and keep only ASCII
// letters, digits, whitespace, and apostrophes. NormalizeDocument additionally
// splits on whitespace and drops empty words; NormalizeToken leaves the
// filtered string intact, so a transcribed word with a stray leading space
// keeps it.
package textnorm
