package document

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// ErrReadOnly is returned by mutating operations on a Document opened past
// its settings' max_editable_age (see SPEC_FULL.md "max_editable_age").
var ErrReadOnly = errors.New("document: session is read-only")

// Document is the in-memory writing-session model (§3 "Document model").
// It owns its paragraphs; mutations other than NewParagraph touch only the
// tail paragraph ("currently").
type Document struct {
	session    Session
	sprint     *Sprint
	sprintStartIndex int
	paragraphs []Paragraph // ordered, dense index 0..n-1
	dirty      bool
	readOnly   bool
}

// New starts a brand-new Document for a freshly created session, with one
// empty paragraph at index 0.
func New(session Session) *Document {
	d := &Document{session: session}
	d.paragraphs = []Paragraph{{
		ID:        paragraphID(session.ID, 0),
		SessionID: session.ID,
		Index:     0,
	}}
	return d
}

// Resume reconstructs a Document from persisted state, applying the
// max_editable_age rule recovered from original_source/: sessions whose
// UpdatedAt is older than maxEditableAge open read-only.
func Resume(session Session, paragraphs []Paragraph, maxEditableAge time.Duration) *Document {
	d := &Document{session: session, paragraphs: paragraphs}
	if maxEditableAge > 0 && time.Since(session.UpdatedAt) > maxEditableAge {
		d.readOnly = true
	}
	return d
}

// ReadOnly reports whether mutating operations are rejected.
func (d *Document) ReadOnly() bool { return d.readOnly }

// Session returns the current session record (word count is kept live by
// Keystroke/Backspace so callers always see an up-to-date value).
func (d *Document) Session() Session { return d.session }

// Dirty reports whether the document has unsaved changes.
func (d *Document) Dirty() bool { return d.dirty }

// Paragraphs returns a copy of the ordered paragraph list.
func (d *Document) Paragraphs() []Paragraph {
	out := make([]Paragraph, len(d.paragraphs))
	copy(out, d.paragraphs)
	return out
}

// Current returns the tail paragraph, the only one mutations other than
// NewParagraph ever touch.
func (d *Document) Current() Paragraph {
	return d.paragraphs[len(d.paragraphs)-1]
}

func (d *Document) currentPtr() *Paragraph {
	return &d.paragraphs[len(d.paragraphs)-1]
}

// isGraphical is the predicate spec.md §4.7 requires of Keystroke's input:
// Unicode general category L, M, N, P, S, or the Zs space separator.
func isGraphical(r rune) bool {
	if unicode.IsSpace(r) {
		return r == ' ' || unicode.Is(unicode.Zs, r)
	}
	return unicode.IsOneOf([]*unicode.RangeTable{
		unicode.L, unicode.M, unicode.N, unicode.P, unicode.S,
	}, r)
}

// Keystroke appends a character to the current paragraph's Markdown.
func (d *Document) Keystroke(r rune) error {
	if d.readOnly {
		return ErrReadOnly
	}
	if !isGraphical(r) {
		return nil
	}
	cur := d.currentPtr()
	cur.Markdown += string(r)
	d.touch()
	return nil
}

// Backspace removes the last character of the current paragraph. It is a
// no-op on an empty paragraph and never crosses a paragraph boundary (§4.7).
func (d *Document) Backspace() error {
	if d.readOnly {
		return ErrReadOnly
	}
	cur := d.currentPtr()
	if cur.Markdown == "" {
		return nil
	}
	runes := []rune(cur.Markdown)
	cur.Markdown = string(runes[:len(runes)-1])
	d.touch()
	return nil
}

// NewParagraph allocates a new paragraph after the current one, unless the
// current paragraph is empty, in which case it is a no-op (calling it
// twice in succession allocates at most one paragraph, §8).
func (d *Document) NewParagraph() error {
	if d.readOnly {
		return ErrReadOnly
	}
	if d.Current().Markdown == "" {
		return nil
	}
	d.appendParagraph("")
	d.touch()
	return nil
}

func (d *Document) appendParagraph(markdown string) *Paragraph {
	index := len(d.paragraphs)
	sprintID := ""
	if d.sprint != nil {
		sprintID = d.sprint.ID
	}
	d.paragraphs = append(d.paragraphs, Paragraph{
		ID:        paragraphID(d.session.ID, index),
		SessionID: d.session.ID,
		Index:     index,
		SprintID:  sprintID,
		Markdown:  markdown,
	})
	return &d.paragraphs[len(d.paragraphs)-1]
}

func (d *Document) touch() {
	d.dirty = true
	d.session.UpdatedAt = time.Now()
	d.session.WordCount = CountWordsAll(d.paragraphs)
}

// BeginSprint starts a timed sub-session: a new Sprint record, a header
// comment paragraph, and a fresh empty paragraph to draft into (§4.7).
func (d *Document) BeginSprint(duration time.Duration) (Sprint, error) {
	if d.readOnly {
		return Sprint{}, ErrReadOnly
	}
	if d.sprint != nil {
		return Sprint{}, errors.New("document: a sprint is already active")
	}
	id, err := randomID()
	if err != nil {
		return Sprint{}, err
	}
	if d.Current().Markdown != "" {
		d.appendParagraph("")
	}
	sprint := Sprint{
		ID:         id,
		SessionID:  d.session.ID,
		StartedAt:  time.Now(),
		Duration:   duration,
		StartIndex: d.Current().Index,
	}
	d.sprint = &sprint
	header := fmt.Sprintf("# sprint started %s (%s)", sprint.StartedAt.Format(time.RFC3339), duration)
	d.currentPtr().Markdown = header
	d.currentPtr().SprintID = sprint.ID
	d.appendParagraph("")
	d.touch()
	return sprint, nil
}

// EndSprint closes the active sprint, appending a footer comment paragraph
// and a fresh empty paragraph (§4.7).
func (d *Document) EndSprint() (Sprint, error) {
	if d.readOnly {
		return Sprint{}, ErrReadOnly
	}
	if d.sprint == nil {
		return Sprint{}, errors.New("document: no active sprint")
	}
	now := time.Now()
	d.sprint.EndedAt = now
	d.sprint.WordCount = d.sprintWordCount(*d.sprint)

	footer := fmt.Sprintf("# sprint ended %s (%d words)", now.Format(time.RFC3339), d.sprint.WordCount)
	d.appendParagraph(footer)
	d.currentPtr().SprintID = d.sprint.ID

	ended := *d.sprint
	d.sprint = nil
	d.appendParagraph("")

	d.touch()
	return ended, nil
}

// sprintWordCount sums the word count of paragraphs whose index falls
// within [sprint.StartIndex, len(paragraphs)) (§3: "up to (exclusive) a
// potential end-sprint paragraph").
func (d *Document) sprintWordCount(sprint Sprint) int {
	total := 0
	for _, p := range d.paragraphs {
		if p.Index >= sprint.StartIndex {
			total += CountWords(p.Markdown)
		}
	}
	return total
}

// SaveSession persists the document if dirty, updating the session's word
// count (§4.7).
func (d *Document) SaveSession(ctx context.Context, store Store) error {
	if !d.dirty {
		return nil
	}
	wordcount := CountWordsAll(d.paragraphs)
	if err := store.SaveSession(ctx, d.session.ID, wordcount, d.Paragraphs()); err != nil {
		return err
	}
	d.session.WordCount = wordcount
	d.dirty = false
	return nil
}

// ExportSession writes every paragraph, joined by blank lines, to
// `<session-id> - <timestamp> - <count> words.md` under dir, and stamps
// ExportedAt (§4.7, §6).
func (d *Document) ExportSession(ctx context.Context, store Store, dir string) (string, error) {
	var bodies []string
	for _, p := range d.paragraphs {
		bodies = append(bodies, p.Markdown)
	}
	wordcount := CountWordsAll(d.paragraphs)
	now := time.Now()
	name := fmt.Sprintf("%s - %s - %d words.md", d.session.ID, now.Format("2006-01-02T15-04-05"), wordcount)
	path := filepath.Join(dir, name)
	content := strings.Join(bodies, "\n\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("export session: %w", err)
	}
	if err := store.SetExportedTime(ctx, d.session.ID, now); err != nil {
		return "", err
	}
	d.session.ExportedAt = now
	return path, nil
}

func randomID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
