package screen

import (
	"context"

	"tabula/internal/events"
)

// menuItem is one selectable row of a MainMenuScreen.
type menuItem struct {
	label string
	open  func() Screen
}

// MainMenuScreen is the tap-activated overlay offering the three
// supplemental screens (SPEC_FULL.md "DOMAIN MODEL ADDITIONS"): sprint
// control, font selection, and the session list. A second tap cycles the
// selection; spec.md names no dedicated "confirm" gesture for menus, so a
// KeyEnter press confirms the highlighted item and KeyEsc backs out,
// mirroring how AnnotatedKeyEvent already drives every other screen.
type MainMenuScreen struct {
	drafting *DraftingScreen
	items    []menuItem
	selected int
}

// NewMainMenuScreen builds the menu over the drafting screen it was
// opened from, so Close/Back returns to the same instance.
func NewMainMenuScreen(drafting *DraftingScreen) *MainMenuScreen {
	m := &MainMenuScreen{drafting: drafting}
	m.items = []menuItem{
		{label: "Sprint", open: func() Screen { return NewSprintControlScreen(drafting) }},
		{label: "Font", open: func() Screen { return NewFontMenuScreen(drafting.cfg, drafting) }},
		{label: "Sessions", open: func() Screen { return NewSessionListScreen(drafting.store, drafting) }},
	}
	return m
}

func (m *MainMenuScreen) Run(ctx context.Context, in <-chan events.Event) Verb {
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
					m.selected = (m.selected + 1) % len(m.items)
				}
			case events.AnnotatedKeyEvent:
				if e.Phase != events.Pressed {
					continue
				}
				switch e.Key {
				case events.KeyEnter:
					return ChangeScreen{Next: m.items[m.selected].open(), Behavior: Append}
				case events.KeyEsc:
					return Close{}
				}
			}
		}
	}
}
