package screen

import (
	"context"
	"time"

	"tabula/internal/events"
)

// sprintDurations are the selectable sprint lengths, grounded on
// original_source/src/tabula/screens/sprint_control.py's fixed duration
// menu (SPEC_FULL.md "DOMAIN MODEL ADDITIONS").
var sprintDurations = []time.Duration{
	5 * time.Minute,
	10 * time.Minute,
	15 * time.Minute,
	25 * time.Minute,
}

// SprintControlScreen lets the user pick a sprint duration before calling
// document.Document.BeginSprint.
type SprintControlScreen struct {
	drafting *DraftingScreen
	selected int
}

func NewSprintControlScreen(drafting *DraftingScreen) *SprintControlScreen {
	return &SprintControlScreen{drafting: drafting}
}

func (s *SprintControlScreen) Run(ctx context.Context, in <-chan events.Event) Verb {
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
					s.selected = (s.selected + 1) % len(sprintDurations)
				}
			case events.AnnotatedKeyEvent:
				if e.Phase != events.Pressed {
					continue
				}
				switch e.Key {
				case events.KeyEnter:
					_, _ = s.drafting.doc.BeginSprint(sprintDurations[s.selected])
					s.drafting.repaint()
					return Close{}
				case events.KeyEsc:
					return Close{}
				}
			}
		}
	}
}
