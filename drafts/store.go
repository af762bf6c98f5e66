// Package drafts persists activation message drafts in SQLite and optionally
// archives each saved draft to S3.
package drafts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("draft not found")

// FailedDraftID is returned by SaveDraft when the draft could not be stored.
const FailedDraftID int64 = -1

const schema = `
CREATE TABLE IF NOT EXISTS message_drafts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ref TEXT NOT NULL UNIQUE,
	customer_name TEXT NOT NULL,
	commercial_intent TEXT NOT NULL,
	generated_message TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_message_drafts_created_at ON message_drafts(created_at);
`

// Draft is a generated outbound message staged for approval. Drafts are
// write-once.
type Draft struct {
	ID               int64     `json:"id"`
	Ref              string    `json:"ref"`
	CustomerName     string    `json:"customer_name"`
	CommercialIntent string    `json:"commercial_intent"`
	GeneratedMessage string    `json:"generated_message"`
	CreatedAt        time.Time `json:"created_at"`
}

// Archiver copies a saved draft to secondary storage.
type Archiver interface {
	ArchiveDraft(ctx context.Context, draft Draft) error
}

type Store struct {
	db       *sql.DB
	archiver Archiver
	now      func() time.Time
}

type Option func(*Store)

func WithArchiver(a Archiver) Option {
	return func(s *Store) {
		s.archiver = a
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Open opens (creating if needed) the SQLite database at path. Use ":memory:"
// for a throwaway database.
func Open(path string, opts ...Option) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, and ":memory:" databases live per
	// connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s, err := New(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("📦 Drafts database initialized")
	return s, nil
}

// New wraps an open database and makes sure the schema exists.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a new draft and returns it with its id and ref filled in.
func (s *Store) Save(ctx context.Context, customerName, intent, message string) (Draft, error) {
	d := Draft{
		Ref:              uuid.NewString(),
		CustomerName:     customerName,
		CommercialIntent: intent,
		GeneratedMessage: message,
		CreatedAt:        s.now().UTC(),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO message_drafts (ref, customer_name, commercial_intent, generated_message, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.Ref, d.CustomerName, d.CommercialIntent, d.GeneratedMessage, d.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Draft{}, fmt.Errorf("failed to insert draft: %w", err)
	}

	d.ID, err = res.LastInsertId()
	if err != nil {
		return Draft{}, fmt.Errorf("failed to read draft id: %w", err)
	}

	return d, nil
}

// SaveDraft stores a draft and archives it when an archiver is configured.
// It never fails loudly: it returns FailedDraftID when the draft could not be
// stored.
// Archive errors are logged and do not affect the result.
func (s *Store) SaveDraft(ctx context.Context, customerName, intent, message string) int64 {
	d, err := s.Save(ctx, customerName, intent, message)
	if err != nil {
		log.Error().
			Err(err).
			Str("customer", customerName).
			Msg("Error saving draft")
		return FailedDraftID
	}

	if s.archiver != nil {
		if err := s.archiver.ArchiveDraft(ctx, d); err != nil {
			log.Warn().
				Err(err).
				Int64("draft_id", d.ID).
				Str("ref", d.Ref).
				Msg("Draft saved but archive upload failed")
		}
	}

	return d.ID
}

func (s *Store) Get(ctx context.Context, id int64) (Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, ref, customer_name, commercial_intent, generated_message, created_at
		 FROM message_drafts WHERE id = ?`, id)

	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("failed to get draft %d: %w", id, err)
	}
	return d, nil
}

// List returns the most recent drafts first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Draft, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ref, customer_name, commercial_intent, generated_message, created_at
		 FROM message_drafts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}

	return drafts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(row scanner) (Draft, error) {
	var (
		d         Draft
		createdAt string
	)

	if err := row.Scan(&d.ID, &d.Ref, &d.CustomerName, &d.CommercialIntent, &d.GeneratedMessage, &createdAt); err != nil {
		return Draft{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Draft{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	d.CreatedAt = t

	return d, nil
}
