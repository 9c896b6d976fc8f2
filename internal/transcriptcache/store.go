package transcriptcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"lyricalign/internal/align"
	"lyricalign/internal/fileutil"
)

// ErrNotFound is returned by Get when no entry matches the key.
var ErrNotFound = errors.New("transcript not cached")

// Key identifies a cached transcription.
type Key struct {
	AudioHash string
	Model     string
	Language  string
}

// NewKey hashes the audio file and combines it with model and language.
func NewKey(audioPath, model, language string) (Key, error) {
	hash, err := fileutil.HashFile(audioPath)
	if err != nil {
		return Key{}, fmt.Errorf("hash audio: %w", err)
	}
	return Key{
		AudioHash: hash,
		Model:     strings.ToLower(strings.TrimSpace(model)),
		Language:  strings.ToLower(strings.TrimSpace(language)),
	}, nil
}

// String renders the primary key stored in the database.
func (k Key) String() string {
	return k.AudioHash + ":" + k.Model + ":" + k.Language
}

// Entry is one cached transcription.
type Entry struct {
	Key          Key
	AudioPath    string
	Tokens       []align.TranscribedToken
	WordCount    int
	UntimedWords int
	CreatedAt    time.Time
	LastUsedAt   time.Time
}

// Store manages the transcript cache database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the cache database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached entry for key and marks it as recently used.
func (s *Store) Get(ctx context.Context, key Key) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+`, tokens_json FROM transcripts WHERE cache_key = ?`,
		key.String(),
	)
	var (
		entry      Entry
		tokensJSON string
	)
	if err := scanEntry(row, &entry, &tokensJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("get transcript: %w", err)
	}
	if err := json.Unmarshal([]byte(tokensJSON), &entry.Tokens); err != nil {
		return Entry{}, fmt.Errorf("decode cached tokens: %w", err)
	}

	now := s.now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`UPDATE transcripts SET last_used_at = ? WHERE cache_key = ?`,
		now.UnixMilli(), key.String(),
	); err != nil {
		return Entry{}, fmt.Errorf("touch transcript: %w", err)
	}
	entry.LastUsedAt = time.UnixMilli(now.UnixMilli()).UTC()
	return entry, nil
}

// Put stores or replaces the entry for entry.Key.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	if entry.Key.AudioHash == "" {
		return errors.New("put transcript: audio hash required")
	}
	tokens := entry.Tokens
	if tokens == nil {
		tokens = []align.TranscribedToken{}
	}
	tokensJSON, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	now := s.now().UTC().UnixMilli()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transcripts (
            cache_key, audio_hash, audio_path, model, language,
            word_count, untimed_words, tokens_json, created_at, last_used_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(cache_key) DO UPDATE SET
            audio_path = excluded.audio_path,
            word_count = excluded.word_count,
            untimed_words = excluded.untimed_words,
            tokens_json = excluded.tokens_json,
            last_used_at = excluded.last_used_at`,
		entry.Key.String(),
		entry.Key.AudioHash,
		entry.AudioPath,
		entry.Key.Model,
		entry.Key.Language,
		len(tokens),
		entry.UntimedWords,
		string(tokensJSON),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// List returns all entries, most recently used first. Tokens are not loaded.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM transcripts ORDER BY last_used_at DESC, cache_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := scanEntry(rows, &entry); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune removes entries not used since cutoff and reports how many were
// deleted.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transcripts WHERE last_used_at < ?`,
		cutoff.UTC().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("prune transcripts: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	return res.RowsAffected()
}

const entryColumns = `audio_hash, audio_path, model, language, word_count, untimed_words, created_at, last_used_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner, entry *Entry, extra ...any) error {
	var created, used int64
	dest := []any{
		&entry.Key.AudioHash,
		&entry.AudioPath,
		&entry.Key.Model,
		&entry.Key.Language,
		&entry.WordCount,
		&entry.UntimedWords,
		&created,
		&used,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	entry.CreatedAt = time.UnixMilli(created).UTC()
	entry.LastUsedAt = time.UnixMilli(used).UTC()
	return nil
}
