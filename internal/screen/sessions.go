package screen

import (
	"context"
	"time"

	"tabula/internal/document"
	"tabula/internal/events"
	"tabula/internal/logging"
	"tabula/internal/store"
)

// SessionListScreen lists past sessions and offers delete/export actions
// (SPEC_FULL.md "DOMAIN MODEL ADDITIONS", grounded on
// original_source/src/tabula/screens/menus.py).
type SessionListScreen struct {
	store    document.Store
	drafting *DraftingScreen
	logger   *logging.Logger

	sessions []document.Session
	selected int
}

func NewSessionListScreen(st document.Store, drafting *DraftingScreen) *SessionListScreen {
	return &SessionListScreen{store: st, drafting: drafting}
}

// WithLogger attaches a logger used to report export-directory filename
// collisions detected via internal/store.ExportWatcher.
func (s *SessionListScreen) WithLogger(l *logging.Logger) *SessionListScreen {
	s.logger = l
	return s
}

func (s *SessionListScreen) Run(ctx context.Context, in <-chan events.Event) Verb {
	sessions, err := s.store.ListSessions(ctx, 0, false)
	if err != nil {
		return Close{}
	}
	s.sessions = sessions
	if len(s.sessions) == 0 {
		return Close{}
	}

	for {
		select {
		case <-ctx.Done():
			return Close{}
		case ev, ok := <-in:
			if !ok {
				return Close{}
			}
			switch e := ev.(type) {
			case events.TapEvent:
				if e.Phase == events.TapCompleted {
					s.selected = (s.selected + 1) % len(s.sessions)
				}
			case events.AnnotatedKeyEvent:
				if e.Phase != events.Pressed {
					continue
				}
				switch e.Key {
				case events.KeyEsc:
					return Close{}
				case events.KeyEnter:
					s.exportSelected(ctx)
					return Close{}
				case events.KeyBackspace:
					_ = s.store.DeleteSession(ctx, s.sessions[s.selected].ID)
					return Close{}
				}
			}
		}
	}
}

func (s *SessionListScreen) exportSelected(ctx context.Context) {
	session := s.sessions[s.selected]
	paragraphs, err := s.store.LoadSessionParagraphs(ctx, session.ID)
	if err != nil {
		return
	}

	exportDir := s.drafting.cfg.Settings.ExportPath
	var exportedPath string
	watcher, err := store.WatchExportDir(exportDir)
	if err == nil {
		defer watcher.Close()
		collisions := watcher.Collisions()
		defer func() {
			select {
			case name, ok := <-collisions:
				if ok && name != exportedPath && s.logger != nil {
					s.logger.Warn("export directory collision detected", "path", name)
				}
			case <-time.After(50 * time.Millisecond):
			}
		}()
	}

	doc := document.Resume(session, paragraphs, 0)
	exportedPath, _ = doc.ExportSession(ctx, s.store, exportDir)
}
