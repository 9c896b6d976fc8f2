package textnorm

import (
	"reflect"
	"testing"
)

func TestNormalizeDocument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"punctuation", "Hello, World!", []string{"hello", "world"}},
		{"apostrophes kept", "Don't stop me now", []string{"don't", "stop", "me", "now"}},
		{"line breaks", "first line\nsecond\tline\r\n", []string{"first", "line", "second", "line"}},
		{"digits", "99 Luftballons", []string{"99", "luftballons"}},
		{"punctuation only words dropped", "la - la -- la", []string{"la", "la", "la"}},
		{"accents stripped", "Café déjà vu", []string{"caf", "dj", "vu"}},
		{"empty", "", nil},
		{"whitespace only", "  \n\t ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDocument(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("NormalizeDocument(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeToken(t *testing.T) {
	tests := map[string]string{
		"Hello,":   "hello",
		"don't":    "don't",
		" Rock":    " rock",
		"(yeah!)":  "yeah",
		"ROCK'N'":  "rock'n'",
		"...":      "",
		"":         "",
		"mini-bar": "minibar",
	}
	for in, want := range tests {
		if got := NormalizeToken(in); got != want {
			t.Errorf("NormalizeToken(%q) = %q, want %q", in, got, want)
		}
	}
}
