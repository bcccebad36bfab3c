package gesture

import (
	"context"
	"time"

	"tabula/internal/events"
)

// Tap recognition constants (§4.2).
const (
	MaxTapDuration   = 300 * time.Millisecond
	RequiredPressure = 26
)

type tapState int

const (
	tapPossible tapState = iota
	tapFailed
	tapInitiated
	tapRecognized
	tapCanceled
)

type tracked struct {
	id        int64
	location  events.Point
	startedAt time.Time
	initiated bool
}

// recognizer is gesturestream stage 2 (§4.2). It is fed only the
// PersistentTouchReport stream: tap recognition is driven by the absolute
// timestamps on the reports rather than a wall timer or separate clock.
type recognizer struct {
	state   tapState
	track   *tracked
	liveIDs map[int64]struct{}
}

func newRecognizer() *recognizer {
	return &recognizer{state: tapPossible, liveIDs: map[int64]struct{}{}}
}

func (r *recognizer) process(report events.PersistentTouchReport) []events.TapEvent {
	var out []events.TapEvent

	for _, t := range report.Began {
		r.liveIDs[t.ID] = struct{}{}
	}
	for _, t := range report.Ended {
		delete(r.liveIDs, t.ID)
	}

	for _, t := range report.Began {
		if r.track != nil {
			r.state = tapFailed
			if r.track.initiated {
				out = append(out, events.TapEvent{Location: r.track.location, Phase: events.TapCanceled})
				r.state = tapCanceled
			}
			continue
		}
		r.track = &tracked{id: t.ID, location: t.Location, startedAt: report.Timestamp}
		if t.MaxPressure >= RequiredPressure {
			out = append(out, events.TapEvent{Location: t.Location, Phase: events.TapInitiated})
			r.track.initiated = true
			r.state = tapInitiated
		}
	}

	for _, t := range report.Moved {
		if r.track == nil || t.ID != r.track.id {
			continue
		}
		if r.state == tapInitiated {
			out = append(out, events.TapEvent{Location: r.track.location, Phase: events.TapCanceled})
		}
		r.state = tapFailed
		r.track.location = t.Location
		if !r.track.initiated && t.MaxPressure >= RequiredPressure {
			out = append(out, events.TapEvent{Location: t.Location, Phase: events.TapInitiated})
			r.track.initiated = true
			r.state = tapInitiated
		}
	}

	for _, t := range report.Ended {
		if r.track == nil || t.ID != r.track.id {
			continue
		}
		r.track.location = t.Location
		if t.MaxPressure < RequiredPressure {
			r.state = tapFailed
		} else if report.Timestamp.Sub(r.track.startedAt) > MaxTapDuration {
			if r.state == tapInitiated {
				out = append(out, events.TapEvent{Location: r.track.location, Phase: events.TapCanceled})
				r.state = tapCanceled
			} else {
				r.state = tapFailed
			}
		} else if r.state == tapPossible || r.state == tapInitiated {
			out = append(out, events.TapEvent{Location: r.track.location, Phase: events.TapCompleted})
			r.state = tapRecognized
		}
	}

	if len(r.liveIDs) == 0 {
		r.track = nil
		r.state = tapPossible
	}

	return out
}

// StageRecognize runs stage 2 as a pipeline goroutine.
func StageRecognize(ctx context.Context, in <-chan events.PersistentTouchReport) <-chan events.TapEvent {
	out := make(chan events.TapEvent)
	go func() {
		defer close(out)
		rec := newRecognizer()
		for {
			select {
			case <-ctx.Done():
				return
			case report, ok := <-in:
				if !ok {
					return
				}
				for _, tap := range rec.process(report) {
					select {
					case out <- tap:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return out
}
