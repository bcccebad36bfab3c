// Package gesture implements the multi-touch frame -> persistent-touch ->
// tap-event pipeline (spec.md §4.2).
package gesture

import (
	"context"

	"tabula/internal/events"
)

// MoveThreshold is the pixel distance beyond which a slot's movement
// between two reports is considered MOVED rather than STATIONARY.
const MoveThreshold = 8.0

type slotState struct {
	occupied bool
	id       int64
	location events.Point
	maxPressure int
}

// makePersistent is gesturestream stage 1 (§4.2): it holds a two-slot array
// of current persistent touches and a monotonically increasing id counter,
// and turns each TouchReport into a PersistentTouchReport.
type makePersistent struct {
	slots  [2]slotState
	nextID int64
}

func (m *makePersistent) process(report events.TouchReport) events.PersistentTouchReport {
	present := [2]*events.TouchEvent{}
	for i := range report.Touches {
		t := &report.Touches[i]
		if t.Slot == 0 || t.Slot == 1 {
			present[t.Slot] = t
		}
	}

	out := events.PersistentTouchReport{Timestamp: report.Timestamp}
	for slot := 0; slot < 2; slot++ {
		s := &m.slots[slot]
		now := present[slot]
		switch {
		case !s.occupied && now == nil:
			// nothing
		case !s.occupied && now != nil:
			s.occupied = true
			s.id = m.nextID
			m.nextID++
			s.location = now.Location()
			s.maxPressure = now.Pressure
			out.Began = append(out.Began, events.PersistentTouch{
				ID: s.id, Location: s.location, MaxPressure: s.maxPressure, Phase: events.TouchBegan,
			})
		case s.occupied && now == nil:
			ended := events.PersistentTouch{ID: s.id, Location: s.location, MaxPressure: s.maxPressure, Phase: events.TouchEnded}
			out.Ended = append(out.Ended, ended)
			*s = slotState{}
		case s.occupied && now != nil:
			if now.Pressure > s.maxPressure {
				s.maxPressure = now.Pressure
			}
			dist := events.Distance(s.location, now.Location())
			s.location = now.Location()
			if dist > MoveThreshold {
				out.Moved = append(out.Moved, events.PersistentTouch{
					ID: s.id, Location: s.location, MaxPressure: s.maxPressure, Phase: events.TouchMoved,
				})
			}
			// STATIONARY touches are not reported upstream (§3: "emit a
			// report only if any of began/moved/ended is nonempty"); the
			// tracked location and max-pressure bookkeeping above still
			// apply so a later MOVED or ENDED sees accumulated state.
		}
	}
	return out
}

// StagePersist runs stage 1 as a pipeline goroutine.
func StagePersist(ctx context.Context, in <-chan events.TouchReport) <-chan events.PersistentTouchReport {
	out := make(chan events.PersistentTouchReport)
	go func() {
		defer close(out)
		mp := &makePersistent{}
		for {
			select {
			case <-ctx.Done():
				return
			case report, ok := <-in:
				if !ok {
					return
				}
				pr := mp.process(report)
				if pr.Empty() {
					continue
				}
				select {
				case out <- pr:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
