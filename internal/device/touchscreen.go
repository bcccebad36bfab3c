package device

import (
	"time"

	"tabula/internal/events"
)

// Protocol selects how raw ABS_MT_* events are assembled into frames
// (spec.md §4.3): "type B" is the kernel slot-tracking protocol; "snow" is
// the older protocol where the tracking id doubles as the slot index.
type Protocol int

const (
	ProtocolTypeB Protocol = iota
	ProtocolSnow
)

// FrameAssembler turns a stream of raw ABS_MT_*/SYN_* events into
// TouchReports, supporting both wire protocols from one state machine.
type FrameAssembler struct {
	protocol   Protocol
	slot       int // current ABS_MT_SLOT (type B) or tracking id (snow)
	current    map[int]events.TouchEvent
	dropped    bool
}

// NewFrameAssembler constructs an assembler for the given protocol.
func NewFrameAssembler(protocol Protocol) *FrameAssembler {
	return &FrameAssembler{protocol: protocol, current: map[int]events.TouchEvent{}}
}

// Feed processes one raw event and returns a TouchReport when a SYN_REPORT
// boundary completes a frame; ok is false otherwise.
func (a *FrameAssembler) Feed(ev RawEvent) (report events.TouchReport, ok bool) {
	switch ev.Type {
	case EvAbs:
		a.handleAbs(ev)
	case EvKey:
		if ev.Code == BtnTouch && ev.Value == 0 {
			a.current = map[int]events.TouchEvent{}
		}
	case EvSyn:
		switch ev.Code {
		case SynDropped:
			a.dropped = true
			a.current = map[int]events.TouchEvent{}
		case SynReport:
			if a.dropped {
				a.dropped = false
				return events.TouchReport{}, false
			}
			return a.snapshot(ev.Timestamp), true
		}
	}
	return events.TouchReport{}, false
}

func (a *FrameAssembler) handleAbs(ev RawEvent) {
	switch a.protocol {
	case ProtocolTypeB:
		a.handleAbsTypeB(ev)
	case ProtocolSnow:
		a.handleAbsSnow(ev)
	}
}

func (a *FrameAssembler) handleAbsTypeB(ev RawEvent) {
	switch ev.Code {
	case AbsMTSlot:
		a.slot = int(ev.Value)
	case AbsMTTrackingID:
		if ev.Value == -1 {
			delete(a.current, a.slot)
			return
		}
		t := a.current[a.slot]
		t.Slot = clampSlot(a.slot)
		a.current[a.slot] = t
	case AbsMTPositionX:
		a.setField(a.slot, func(t *events.TouchEvent) { t.X = int(ev.Value) })
	case AbsMTPositionY:
		a.setField(a.slot, func(t *events.TouchEvent) { t.Y = int(ev.Value) })
	case AbsMTPressure:
		a.setField(a.slot, func(t *events.TouchEvent) { t.Pressure = int(ev.Value) })
	}
}

// handleAbsSnow implements the "snow" protocol (spec.md §4.3), where the
// kernel never emits ABS_MT_SLOT: ABS_MT_TRACKING_ID itself selects which
// touch subsequent position/pressure events belong to, doubling as the
// slot index.
func (a *FrameAssembler) handleAbsSnow(ev RawEvent) {
	switch ev.Code {
	case AbsMTTrackingID:
		a.slot = int(ev.Value)
		t := a.current[a.slot]
		t.Slot = clampSlot(a.slot)
		a.current[a.slot] = t
	case AbsMTPositionX:
		a.setField(a.slot, func(t *events.TouchEvent) { t.X = int(ev.Value) })
	case AbsMTPositionY:
		a.setField(a.slot, func(t *events.TouchEvent) { t.Y = int(ev.Value) })
	case AbsMTPressure:
		a.setField(a.slot, func(t *events.TouchEvent) { t.Pressure = int(ev.Value) })
	}
}

func (a *FrameAssembler) setField(slot int, mutate func(*events.TouchEvent)) {
	t := a.current[slot]
	mutate(&t)
	a.current[slot] = t
}

func (a *FrameAssembler) snapshot(ts time.Time) events.TouchReport {
	report := events.TouchReport{Timestamp: ts}
	for _, t := range a.current {
		report.Touches = append(report.Touches, t)
	}
	return report
}

// clampSlot maps an arbitrary slot/tracking-id value onto the two tracked
// slots (§3: "Slot is 0 or 1 (two tracked touches max)").
func clampSlot(slot int) int {
	if slot < 0 {
		return 0
	}
	return slot % 2
}
