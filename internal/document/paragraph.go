// Package document implements the append-only paragraph/session/sprint
// model described in spec.md §3 and §4.7.
package document

import "time"

// Paragraph is one unit of a writing session's body. Index and the two ids
// are immutable once created; Markdown is the only mutable field (§3).
type Paragraph struct {
	ID        string
	SessionID string
	Index     int
	SprintID  string // empty when the paragraph belongs to no sprint
	Markdown  string
}

// Session is one writing session (§3).
type Session struct {
	ID         string
	StartedOn  time.Time
	UpdatedAt  time.Time
	ExportedAt time.Time // zero value means "never exported"
	WordCount  int
}

// NeedsExport reports whether the session has unexported changes.
func (s Session) NeedsExport() bool {
	return s.ExportedAt.Before(s.UpdatedAt)
}

// Sprint is a timed sub-session bracketed by comment-only paragraphs (§3).
type Sprint struct {
	ID          string
	SessionID   string
	StartedAt   time.Time
	Duration    time.Duration
	EndedAt     time.Time // zero value means the sprint is still running
	WordCount   int
	StartIndex  int // index of the first paragraph belonging to this sprint
}
