package screen

import (
	"context"

	"tabula/internal/events"
)

// KeyboardDetectScreen blocks drafting until a keyboard is grabbed
// (SPEC_FULL.md "DOMAIN MODEL ADDITIONS", grounded on
// original_source/src/tabula/screens/keyboard_detect.py): it waits for
// the first AnnotatedKeyEvent and hands control back to whichever screen
// the caller configured, re-showing itself whenever the keyboard
// disconnects again.
type KeyboardDetectScreen struct {
	onReady func() Screen
}

// NewKeyboardDetectScreen builds the screen with no callback: unless
// WithOnReady sets one, Run returns Close when a keyboard event arrives.
func NewKeyboardDetectScreen() *KeyboardDetectScreen {
	return &KeyboardDetectScreen{}
}

// WithOnReady sets the screen constructed once a keyboard event arrives.
func (s *KeyboardDetectScreen) WithOnReady(f func() Screen) *KeyboardDetectScreen {
	s.onReady = f
	return s
}

func (s *KeyboardDetectScreen) Run(ctx context.Context, in <-chan events.Event) Verb {
	for {
		select {
		case <-ctx.Done():
			return Shutdown{}
		case ev, ok := <-in:
			if !ok {
				return Shutdown{}
			}
			switch ev.(type) {
			case events.AnnotatedKeyEvent:
				if s.onReady != nil {
					return ChangeScreen{Next: s.onReady(), Behavior: ReplaceAll}
				}
				return Close{}
			case events.KeyboardDisconnect:
				continue // already showing the detect screen; nothing to do
			default:
				continue
			}
		}
	}
}
