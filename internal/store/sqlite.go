// Package store implements document.Store against SQLite (spec.md §6
// Persistence): sessions, sprints, and paragraphs, each session's
// paragraphs addressed by a unique (session_id, index) pair.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tabula/internal/document"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	started_on  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL,
	exported_at DATETIME,
	word_count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS sprints (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL REFERENCES sessions(id),
	started_at  DATETIME NOT NULL,
	duration_ns INTEGER NOT NULL,
	ended_at    DATETIME,
	word_count  INTEGER NOT NULL DEFAULT 0,
	start_index INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS paragraphs (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	idx        INTEGER NOT NULL,
	sprint_id  TEXT NOT NULL DEFAULT '',
	markdown   TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS paragraphs_session_idx ON paragraphs(session_id, idx);
`

// Store is the SQLite-backed document.Store implementation.
type Store struct {
	db *sql.DB
}

var _ document.Store = (*Store)(nil)

// Open opens (creating if necessary) the database at path, applies the
// schema, and checks PRAGMA user_version against schemaVersion.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("store: create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	if err := checkUserVersion(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func checkUserVersion(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("store: read user_version: %w", err)
	}
	if version == 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("store: set user_version: %w", err)
		}
		return nil
	}
	if version != schemaVersion {
		return fmt.Errorf("store: database schema version %d does not match expected %d", version, schemaVersion)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewSession inserts a brand-new session row.
func (s *Store) NewSession(ctx context.Context) (document.Session, error) {
	id, err := randomID()
	if err != nil {
		return document.Session{}, err
	}
	now := time.Now()
	session := document.Session{ID: id, StartedOn: now, UpdatedAt: now}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_on, updated_at, word_count) VALUES (?, ?, ?, 0)`,
		session.ID, session.StartedOn, session.UpdatedAt)
	if err != nil {
		return document.Session{}, fmt.Errorf("store: insert session: %w", err)
	}
	return session, nil
}

// NewSprint inserts a new sprint row tied to sessionID.
func (s *Store) NewSprint(ctx context.Context, sessionID string, duration time.Duration) (document.Sprint, error) {
	id, err := randomID()
	if err != nil {
		return document.Sprint{}, err
	}
	sprint := document.Sprint{
		ID:        id,
		SessionID: sessionID,
		StartedAt: time.Now(),
		Duration:  duration,
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sprints (id, session_id, started_at, duration_ns, word_count, start_index) VALUES (?, ?, ?, ?, 0, 0)`,
		sprint.ID, sprint.SessionID, sprint.StartedAt, sprint.Duration.Nanoseconds())
	if err != nil {
		return document.Sprint{}, fmt.Errorf("store: insert sprint: %w", err)
	}
	return sprint, nil
}

// ListSessions returns sessions ordered by most-recently-updated first.
// When onlyExportable is true, only sessions with unexported changes are
// returned (document.Session.NeedsExport).
func (s *Store) ListSessions(ctx context.Context, limit int, onlyExportable bool) ([]document.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_on, updated_at, exported_at, word_count FROM sessions ORDER BY updated_at DESC LIMIT ?`,
		sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []document.Session
	for rows.Next() {
		var sess document.Session
		var exportedAt sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.StartedOn, &sess.UpdatedAt, &exportedAt, &sess.WordCount); err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		if exportedAt.Valid {
			sess.ExportedAt = exportedAt.Time
		}
		if onlyExportable && !sess.NeedsExport() {
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// LoadSessionParagraphs returns every paragraph of sessionID in index order.
func (s *Store) LoadSessionParagraphs(ctx context.Context, sessionID string) ([]document.Paragraph, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, idx, sprint_id, markdown FROM paragraphs WHERE session_id = ? ORDER BY idx ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("store: load paragraphs: %w", err)
	}
	defer rows.Close()

	var paragraphs []document.Paragraph
	for rows.Next() {
		var p document.Paragraph
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Index, &p.SprintID, &p.Markdown); err != nil {
			return nil, fmt.Errorf("store: scan paragraph: %w", err)
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs, rows.Err()
}

// SaveSession upserts every paragraph of the session and updates the
// session's word count and updated_at in one transaction.
func (s *Store) SaveSession(ctx context.Context, sessionID string, wordcount int, paragraphs []document.Paragraph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin save tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET word_count = ?, updated_at = ? WHERE id = ?`,
		wordcount, now, sessionID); err != nil {
		return fmt.Errorf("store: update session: %w", err)
	}

	for _, p := range paragraphs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO paragraphs (id, session_id, idx, sprint_id, markdown) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(session_id, idx) DO UPDATE SET markdown = excluded.markdown, sprint_id = excluded.sprint_id`,
			p.ID, p.SessionID, p.Index, p.SprintID, p.Markdown)
		if err != nil {
			return fmt.Errorf("store: upsert paragraph %d: %w", p.Index, err)
		}
	}

	return tx.Commit()
}

// DeleteSession removes a session and its paragraphs and sprints.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin delete tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM paragraphs WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("store: delete paragraphs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sprints WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("store: delete sprints: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("store: delete session: %w", err)
	}

	return tx.Commit()
}

// SetExportedTime stamps a session's exported_at.
func (s *Store) SetExportedTime(ctx context.Context, sessionID string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET exported_at = ? WHERE id = ?`, ts, sessionID)
	if err != nil {
		return fmt.Errorf("store: set exported time: %w", err)
	}
	return nil
}

// UpdateSprint updates a sprint's word count and, if ended is non-nil, its
// end time.
func (s *Store) UpdateSprint(ctx context.Context, sprintID string, wordcount int, ended *time.Time) error {
	if ended != nil {
		_, err := s.db.ExecContext(ctx,
			`UPDATE sprints SET word_count = ?, ended_at = ? WHERE id = ?`, wordcount, *ended, sprintID)
		if err != nil {
			return fmt.Errorf("store: update sprint: %w", err)
		}
		return nil
	}
	_, err := s.db.ExecContext(ctx, `UPDATE sprints SET word_count = ? WHERE id = ?`, wordcount, sprintID)
	if err != nil {
		return fmt.Errorf("store: update sprint: %w", err)
	}
	return nil
}

func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
