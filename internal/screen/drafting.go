package screen

import (
	"context"

	"tabula/internal/display"
	"tabula/internal/document"
	"tabula/internal/events"
	"tabula/internal/layout"
)

// DraftingScreen is the core of the application: the always-present
// writing surface (spec.md §2, §4.7). A tap opens the action menu; text
// typed through the keystream pipeline appends to the current paragraph.
type DraftingScreen struct {
	doc     *document.Document
	store   document.Store
	disp    *display.Display
	layout  *layout.Manager
	cfg     *SettingsBox
}

// NewDraftingScreen constructs the drafting screen over an already-loaded
// (or brand-new) document.
func NewDraftingScreen(doc *document.Document, store document.Store, disp *display.Display, lay *layout.Manager, cfg *SettingsBox) *DraftingScreen {
	return &DraftingScreen{doc: doc, store: store, disp: disp, layout: lay, cfg: cfg}
}

func (s *DraftingScreen) Run(ctx context.Context, in <-chan events.Event) Verb {
	s.repaint()
	for {
		select {
		case <-ctx.Done():
			return Shutdown{}
		case ev, ok := <-in:
			if !ok {
				return Shutdown{}
			}
			if verb := s.handle(ctx, ev); verb != nil {
				return verb
			}
		}
	}
}

func (s *DraftingScreen) handle(ctx context.Context, ev events.Event) Verb {
	switch e := ev.(type) {
	case events.AnnotatedKeyEvent:
		s.handleKey(e)
		return nil
	case events.TapEvent:
		if e.Phase == events.TapCompleted {
			return ChangeScreen{Next: NewMainMenuScreen(s), Behavior: Append}
		}
		return nil
	case events.KeyboardDisconnect:
		detect := NewKeyboardDetectScreen().WithOnReady(func() Screen { return s })
		return ChangeScreen{Next: detect, Behavior: ReplaceAll}
	default:
		return nil // unknown event types are silently dropped, spec.md §7
	}
}

func (s *DraftingScreen) handleKey(e events.AnnotatedKeyEvent) {
	if e.Phase != events.Pressed && e.Phase != events.Repeated {
		return
	}
	switch {
	case e.Key == events.KeyEnter:
		_ = s.doc.NewParagraph()
	case e.Key == events.KeyBackspace:
		_ = s.doc.Backspace()
	case e.HasChar:
		_ = s.doc.Keystroke(e.Character)
	default:
		return
	}
	s.repaint()
}

func (s *DraftingScreen) repaint() {
	result, err := s.layout.Render(s.doc)
	if err != nil || result.Rect.Empty() {
		return
	}
	_ = s.disp.Blit(result.Rect, result.Pixels)
}

// SaveIfDirty implements DirtySaver: the autosave ticker calls this on
// whichever screen is on top, so only the drafting screen (the one
// holding a document) does anything here.
func (s *DraftingScreen) SaveIfDirty(ctx context.Context) error {
	return s.doc.SaveSession(ctx, s.store)
}
