// Package draft persists half-written comment and ticket replies locally,
// so text composed in the TUI survives a restart. Drafts are keyed by the
// entity they target and deleted once the post succeeds.
package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Kind identifies what a draft is a reply to.
type Kind string

const (
	KindComment     Kind = "comment"
	KindTicketReply Kind = "ticket_reply"
)

// Store is a local SQLite-backed draft store.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the draft database at dbPath, enables WAL mode,
// and runs any pending schema migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS drafts (
	kind       TEXT NOT NULL,
	target_id  TEXT NOT NULL,
	body       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (kind, target_id)
)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating drafts table: %w", err)
	}
	return nil
}

// Save upserts the draft body for the given target. An empty body deletes
// the draft instead of storing a blank row.
func (s *Store) Save(ctx context.Context, kind Kind, targetID, body string) error {
	if body == "" {
		return s.Delete(ctx, kind, targetID)
	}
	const stmt = `
INSERT INTO drafts (kind, target_id, body, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (kind, target_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, stmt, string(kind), targetID, body, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

// Get returns the draft body for the given target, or "" when none exists.
func (s *Store) Get(ctx context.Context, kind Kind, targetID string) (string, error) {
	var body string
	err := s.db.GetContext(ctx, &body,
		"SELECT body FROM drafts WHERE kind = ? AND target_id = ?", string(kind), targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading draft: %w", err)
	}
	return body, nil
}

// Delete removes the draft for the given target. No-op when absent.
func (s *Store) Delete(ctx context.Context, kind Kind, targetID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM drafts WHERE kind = ? AND target_id = ?", string(kind), targetID); err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	return nil
}
