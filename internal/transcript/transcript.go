package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lyricalign/internal/align"
	"lyricalign/internal/fileutil"
)

// ErrUnknownFormat is returned when the input is neither a word array nor a
// WhisperX document.
var ErrUnknownFormat = errors.New("unknown transcript format")

// Format identifies the decoded layout.
type Format string

const (
	FormatWords    Format = "words"
	FormatWhisperX Format = "whisperx"
)

// Document is a decoded transcript.
type Document struct {
	Format  Format
	Tokens  []align.TranscribedToken
	Skipped int
}

// Text joins the token text with single spaces.
func (d Document) Text() string {
	parts := make([]string, 0, len(d.Tokens))
	for _, token := range d.Tokens {
		parts = append(parts, token.Text)
	}
	return strings.Join(parts, " ")
}

type wordRecord struct {
	Word  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

type segmentRecord struct {
	Text  string       `json:"text"`
	Words []wordRecord `json:"words"`
}

type whisperXPayload struct {
	Segments []segmentRecord `json:"segments"`
}

// Load reads and decodes the transcript at path.
func Load(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	doc, err := Decode(file)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode reads a transcript in either supported layout.
func Decode(r io.Reader) (Document, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("empty input: %w", ErrUnknownFormat)
		}
		return Document{}, fmt.Errorf("read transcript: %w", err)
	}

	decoder := json.NewDecoder(br)
	switch first {
	case '[':
		var records []wordRecord
		if err := decoder.Decode(&records); err != nil {
			return Document{}, fmt.Errorf("parse word array: %w", err)
		}
		doc := Document{Format: FormatWords}
		doc.appendWords(records)
		return doc, nil
	case '{':
		var payload whisperXPayload
		if err := decoder.Decode(&payload); err != nil {
			return Document{}, fmt.Errorf("parse whisperx json: %w", err)
		}
		if payload.Segments == nil {
			return Document{}, fmt.Errorf("object without segments: %w", ErrUnknownFormat)
		}
		doc := Document{Format: FormatWhisperX}
		for _, segment := range payload.Segments {
			doc.appendWords(segment.Words)
		}
		return doc, nil
	default:
		return Document{}, fmt.Errorf("leading %q: %w", first, ErrUnknownFormat)
	}
}

func (d *Document) appendWords(records []wordRecord) {
	for _, record := range records {
		text := strings.TrimSpace(record.Word)
		if text == "" {
			continue
		}
		if record.Start == nil || record.End == nil {
			d.Skipped++
			continue
		}
		d.Tokens = append(d.Tokens, align.TranscribedToken{
			Text:  text,
			Start: *record.Start,
			End:   *record.End,
		})
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case 0xEF:
			// UTF-8 byte order mark
			if rest, err := br.Peek(2); err == nil && bytes.Equal(rest, []byte{0xBB, 0xBF}) {
				_, _ = br.Discard(2)
				continue
			}
			return b, nil
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// WriteTokens persists transcription tokens as an indented word array.
func WriteTokens(path string, tokens []align.TranscribedToken) error {
	if tokens == nil {
		tokens = []align.TranscribedToken{}
	}
	return writeJSON(path, tokens)
}

// WriteAligned persists aligned tokens as an indented word array.
func WriteAligned(path string, aligned []align.AlignedToken) error {
	if aligned == nil {
		aligned = []align.AlignedToken{}
	}
	return writeJSON(path, aligned)
}

// ReadAligned loads an aligned token file written by WriteAligned.
func ReadAligned(path string) ([]align.AlignedToken, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aligned tokens: %w", err)
	}
	var aligned []align.AlignedToken
	if err := json.Unmarshal(data, &aligned); err != nil {
		return nil, fmt.Errorf("parse aligned tokens: %w", err)
	}
	return aligned, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
