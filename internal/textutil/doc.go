// Package textutil provides the string scoring helpers behind alignment.
//
// DiceCoefficient compares two words by adjacent rune pairs and ignores
// whitespace, so "mini bar" and "minibar" score as identical. Fingerprint and
// CosineSimilarity compare whole documents as word-frequency vectors; they
// are used to catch lyrics that belong to a different recording.
// SanitizeFileName derives output names from input titles.
package textutil
