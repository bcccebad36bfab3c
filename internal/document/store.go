package document

import (
	"context"
	"time"
)

// Store is the persistence external interface (spec.md §6). It is
// implemented by internal/store against SQLite; the document model only
// depends on this narrow interface, never on the storage engine itself.
type Store interface {
	NewSession(ctx context.Context) (Session, error)
	NewSprint(ctx context.Context, sessionID string, duration time.Duration) (Sprint, error)
	ListSessions(ctx context.Context, limit int, onlyExportable bool) ([]Session, error)
	LoadSessionParagraphs(ctx context.Context, sessionID string) ([]Paragraph, error)
	SaveSession(ctx context.Context, sessionID string, wordcount int, paragraphs []Paragraph) error
	DeleteSession(ctx context.Context, sessionID string) error
	SetExportedTime(ctx context.Context, sessionID string, ts time.Time) error
	UpdateSprint(ctx context.Context, sprintID string, wordcount int, ended *time.Time) error
}
