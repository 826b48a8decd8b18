// Package store persists story versions and the generation log in SQLite.
//
// The version table is keyed by the monotonically increasing version number.
// Writes go through a validated upsert: saving an existing version number
// overwrites the row in place while preserving its original created_at, so a
// chain never contains duplicate versions.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/amplerelife/ai-story-tool/internal/story"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS story_versions (
		version INTEGER PRIMARY KEY,
		theme TEXT NOT NULL,
		genre TEXT NOT NULL,
		tone TEXT NOT NULL,
		elements TEXT NOT NULL,
		prompt TEXT NOT NULL,
		content TEXT NOT NULL,
		feedback TEXT,
		rating INTEGER,
		created_at TIMESTAMP NOT NULL
	);

	-- story_generations logs every content-generator invocation, including
	-- failed ones that never produced a version row.
	CREATE TABLE IF NOT EXISTS story_generations (
		id TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT,
		latency_ms INTEGER,
		error TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generations_version ON story_generations(version);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save validates a normalized copy of rec and upserts it by version number;
// the caller's record is never modified. Inserting a new version stamps
// created_at; overwriting an existing version preserves the original
// created_at. The write is a single statement, so a failure leaves the prior
// row state intact.
func (s *Store) Save(ctx context.Context, rec *story.VersionRecord) error {
	rec = normalizeRecord(rec)
	if err := rec.Validate(); err != nil {
		return err
	}

	elements, err := json.Marshal(rec.Elements)
	if err != nil {
		return &story.StorageError{Op: "save", Err: fmt.Errorf("encode elements: %w", err)}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO story_versions (version, theme, genre, tone, elements, prompt, content, feedback, rating, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(version) DO UPDATE SET
			theme = excluded.theme,
			genre = excluded.genre,
			tone = excluded.tone,
			elements = excluded.elements,
			prompt = excluded.prompt,
			content = excluded.content,
			feedback = excluded.feedback,
			rating = excluded.rating`,
		rec.Version, rec.Theme, rec.Genre, rec.Tone, string(elements),
		rec.Prompt, rec.Content, nullString(rec.Feedback), nullInt(rec.Rating),
		time.Now().UTC())
	if err != nil {
		return &story.StorageError{Op: "save", Err: err}
	}
	return nil
}

// Get returns the record for a version, or found=false when absent.
func (s *Store) Get(ctx context.Context, version int) (*story.VersionRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT version, theme, genre, tone, elements, prompt, content, feedback, rating, created_at
		 FROM story_versions WHERE version = ?`, version)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &story.StorageError{Op: "get", Err: err}
	}
	return rec, true, nil
}

// Annotate attaches feedback and a rating to an existing version without
// touching its content or created_at.
func (s *Store) Annotate(ctx context.Context, version int, feedback string, rating int) error {
	feedback = normalizeText(feedback)
	if feedback == "" {
		return &story.ValidationError{Field: "feedback", Reason: "must not be empty"}
	}
	if !story.ValidRating(rating) {
		return &story.ValidationError{Field: "rating", Reason: "must be between 1 and 5"}
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE story_versions SET feedback = ?, rating = ? WHERE version = ?`,
		feedback, rating, version)
	if err != nil {
		return &story.StorageError{Op: "annotate", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &story.StorageError{Op: "annotate", Err: err}
	}
	if affected == 0 {
		return &story.StorageError{Op: "annotate", Err: fmt.Errorf("version %d not found", version)}
	}
	return nil
}

// NextVersion returns the version number the next Save should use:
// max(version)+1, or 1 for an empty store.
func (s *Store) NextVersion(ctx context.Context) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM story_versions`).Scan(&next)
	if err != nil {
		return 0, &story.StorageError{Op: "next_version", Err: err}
	}
	return next, nil
}

// ListVersions returns (version, content) pairs in ascending version order.
func (s *Store) ListVersions(ctx context.Context) ([]story.VersionContent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, content FROM story_versions ORDER BY version`)
	if err != nil {
		return nil, &story.StorageError{Op: "list_versions", Err: err}
	}
	defer rows.Close()

	var versions []story.VersionContent
	for rows.Next() {
		var vc story.VersionContent
		if err := rows.Scan(&vc.Version, &vc.Content); err != nil {
			return nil, &story.StorageError{Op: "list_versions", Err: err}
		}
		versions = append(versions, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, &story.StorageError{Op: "list_versions", Err: err}
	}
	return versions, nil
}

// ListFeedback returns (version, feedback) for all versions with non-null
// feedback, in ascending version order.
func (s *Store) ListFeedback(ctx context.Context) ([]story.FeedbackEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, feedback FROM story_versions WHERE feedback IS NOT NULL ORDER BY version`)
	if err != nil {
		return nil, &story.StorageError{Op: "list_feedback", Err: err}
	}
	defer rows.Close()

	var entries []story.FeedbackEntry
	for rows.Next() {
		var e story.FeedbackEntry
		if err := rows.Scan(&e.Version, &e.Feedback); err != nil {
			return nil, &story.StorageError{Op: "list_feedback", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &story.StorageError{Op: "list_feedback", Err: err}
	}
	return entries, nil
}

// LogGeneration records one content-generator invocation. An empty ID is
// assigned a fresh UUID.
func (s *Store) LogGeneration(ctx context.Context, e story.GenerationEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO story_generations (id, version, provider, model, latency_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Version, e.Provider, e.Model, e.LatencyMs, e.Error, time.Now().UTC())
	if err != nil {
		return &story.StorageError{Op: "log_generation", Err: err}
	}
	return nil
}

// ListGenerations returns the generation log, most recent first.
func (s *Store) ListGenerations(ctx context.Context) ([]story.GenerationEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version, provider, model, latency_ms, error, created_at
		 FROM story_generations ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, &story.StorageError{Op: "list_generations", Err: err}
	}
	defer rows.Close()

	var entries []story.GenerationEntry
	for rows.Next() {
		var e story.GenerationEntry
		if err := rows.Scan(&e.ID, &e.Version, &e.Provider, &e.Model, &e.LatencyMs, &e.Error, &e.CreatedAt); err != nil {
			return nil, &story.StorageError{Op: "list_generations", Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &story.StorageError{Op: "list_generations", Err: err}
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(row *sql.Row) (*story.VersionRecord, error) {
	var rec story.VersionRecord
	var elements string
	var feedback sql.NullString
	var rating sql.NullInt64

	err := row.Scan(&rec.Version, &rec.Theme, &rec.Genre, &rec.Tone, &elements,
		&rec.Prompt, &rec.Content, &feedback, &rating, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(elements), &rec.Elements); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	if feedback.Valid {
		rec.Feedback = &feedback.String
	}
	if rating.Valid {
		r := int(rating.Int64)
		rec.Rating = &r
	}
	return &rec, nil
}

// normalizeRecord returns a copy of rec with every text field trimmed and
// NFC-normalized, so round-tripped records compare equal regardless of input
// encoding form. The input record is left untouched.
func normalizeRecord(rec *story.VersionRecord) *story.VersionRecord {
	out := *rec
	out.Theme = normalizeText(rec.Theme)
	out.Genre = normalizeText(rec.Genre)
	out.Tone = normalizeText(rec.Tone)
	out.Prompt = normalizeText(rec.Prompt)
	out.Content = normalizeText(rec.Content)
	out.Elements = make([]string, len(rec.Elements))
	for i, el := range rec.Elements {
		out.Elements[i] = normalizeText(el)
	}
	if rec.Feedback != nil {
		f := normalizeText(*rec.Feedback)
		out.Feedback = &f
	}
	if rec.Rating != nil {
		r := *rec.Rating
		out.Rating = &r
	}
	return &out
}

// normalizeText trims whitespace and applies Unicode NFC normalization.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}
