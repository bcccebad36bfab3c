package screen

import (
	"context"

	"tabula/internal/events"
)

// FontMenuScreen lets the user change the active drafting font from the
// configured list (SPEC_FULL.md "DOMAIN MODEL ADDITIONS", grounded on
// original_source/src/tabula/screens/fonts.py), replacing the shared
// config.Settings record with a copy carrying the new ActiveFont
// (spec.md §9 "Configuration object").
type FontMenuScreen struct {
	cfg      *SettingsBox
	drafting *DraftingScreen
	selected int
}

func NewFontMenuScreen(cfg *SettingsBox, drafting *DraftingScreen) *FontMenuScreen {
	return &FontMenuScreen{cfg: cfg, drafting: drafting}
}

func (s *FontMenuScreen) Run(ctx context.Context, in <-chan events.Event) Verb {
	fonts := s.cfg.Settings.DraftingFonts
	if len(fonts) == 0 {
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
					s.selected = (s.selected + 1) % len(fonts)
				}
			case events.AnnotatedKeyEvent:
				if e.Phase != events.Pressed {
					continue
				}
				switch e.Key {
				case events.KeyEnter:
					s.cfg.Settings = s.cfg.Settings.WithFont(fonts[s.selected].Family)
					return Close{}
				case events.KeyEsc:
					return Close{}
				}
			}
		}
	}
}
