package events

import "time"

// TouchEvent is a single currently-active touch as reported by the device
// adapter for one slot (at most two slots are tracked).
type TouchEvent struct {
	X, Y     int
	Pressure int
	Slot     int
}

// Location returns the touch's position as a Point.
func (t TouchEvent) Location() Point {
	return Point{X: t.X, Y: t.Y}
}

// TouchReport is the set of currently active touches at one hardware SYN
// boundary (§3 "Touch report").
type TouchReport struct {
	Touches   []TouchEvent
	Timestamp time.Time
}

// TouchPhase is the lifecycle phase of a persistent touch.
type TouchPhase int

const (
	TouchBegan TouchPhase = iota
	TouchMoved
	TouchStationary
	TouchEnded
)

// PersistentTouch is a touch that has been assigned a stable id by
// gesturestream stage 1 (MakePersistent).
type PersistentTouch struct {
	ID          int64
	Location    Point
	MaxPressure int
	Phase       TouchPhase
}

// PersistentTouchReport groups the touches that changed state at one
// hardware SYN boundary into began/moved/ended buckets (§3).
type PersistentTouchReport struct {
	Began     []PersistentTouch
	Moved     []PersistentTouch
	Ended     []PersistentTouch
	Timestamp time.Time
}

// Empty reports whether all three buckets are empty; such a report is
// never emitted by stage 1 but is useful as a zero value in tests.
func (r PersistentTouchReport) Empty() bool {
	return len(r.Began) == 0 && len(r.Moved) == 0 && len(r.Ended) == 0
}

// TapPhase is the lifecycle phase of a recognized tap gesture.
type TapPhase int

const (
	TapInitiated TapPhase = iota
	TapCompleted
	TapCanceled
)

// TapEvent is a discrete tap gesture recognized by gesturestream stage 2.
type TapEvent struct {
	Location Point
	Phase    TapPhase
}

// KeyboardDisconnect is emitted by the device adapter when the active
// keyboard vanishes (ENODEV). It is one of the three transport-visible
// event types a screen's dispatch loop pattern-matches on.
type KeyboardDisconnect struct {
	DeviceName string
}

// Event is the closed set of values the dispatcher forwards to the active
// screen: AnnotatedKeyEvent, TapEvent, and KeyboardDisconnect (§4.6).
// Screens type-switch on the concrete type; anything else is dropped
// silently per spec.md §7 "Unknown event type delivered to a screen".
type Event interface{}
