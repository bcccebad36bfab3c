//go:build !linux

package device

import (
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/op"
)

// Virtual device paths the host backend exposes in place of real
// /dev/input nodes, used on development platforms that have no evdev.
const (
	HostKeyboardPath   = "/host/keyboard"
	HostTouchscreenPath = "/host/touch"
)

// hostBackend runs a single gio window, translating its key and pointer
// events into the same RawEvent shape the Linux evdev reader produces, so
// everything above this package (frame assembly, keystream pipeline) is
// identical across platforms.
type hostBackend struct {
	win       *app.Window
	keyEvents chan RawEvent
	touch     chan RawEvent
	started   bool
}

var shared = &hostBackend{
	keyEvents: make(chan RawEvent, 64),
	touch:     make(chan RawEvent, 64),
}

func (h *hostBackend) ensureStarted() {
	if h.started {
		return
	}
	h.started = true
	go func() {
		h.win = new(app.Window)
		h.win.Option(app.Title("Tabula (host)"))
		if err := h.loop(); err != nil {
			os.Exit(1)
		}
	}()
}

type hostInputTag struct{}

func (h *hostBackend) loop() error {
	var ops op.Ops
	tag := new(hostInputTag)
	for {
		switch e := h.win.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			event.Op(gtx.Ops, tag)
			key.InputOp{Tag: tag, Keys: key.Set("A-Z,a-z,0-9,Space,Enter,Backspace")}.Add(gtx.Ops)
			pointer.InputOp{Tag: tag, Kinds: pointer.Press | pointer.Release | pointer.Move | pointer.Drag}.Add(gtx.Ops)

			for {
				ev, ok := gtx.Event(key.Filter{}, pointer.Filter{Target: tag})
				if !ok {
					break
				}
				switch ev := ev.(type) {
				case key.Event:
					h.emitKey(ev)
				case pointer.Event:
					h.emitPointer(ev)
				}
			}
			e.Frame(gtx.Ops)
		}
	}
}

func (h *hostBackend) emitKey(ev key.Event) {
	value := int32(0)
	if ev.State == key.Press {
		value = 1
	}
	code, ok := hostKeyCode(ev.Name)
	if !ok {
		return
	}
	select {
	case h.keyEvents <- RawEvent{Type: EvKey, Code: code, Value: value, Timestamp: time.Now()}:
	default:
	}
	select {
	case h.keyEvents <- RawEvent{Type: EvSyn, Code: SynReport, Timestamp: time.Now()}:
	default:
	}
}

// hostStream reading loop emits ABS_MT_* for slot 0 only: the dev host has
// no multi-touch hardware, so only single-finger gestures are reachable.
func (h *hostBackend) emitPointer(ev pointer.Event) {
	now := time.Now()
	send := func(r RawEvent) {
		select {
		case h.touch <- r:
		default:
		}
	}
	switch ev.Kind {
	case pointer.Press:
		send(RawEvent{Type: EvAbs, Code: AbsMTSlot, Timestamp: now})
		send(RawEvent{Type: EvAbs, Code: AbsMTTrackingID, Value: 1, Timestamp: now})
		send(RawEvent{Type: EvAbs, Code: AbsMTPositionX, Value: int32(ev.Position.X), Timestamp: now})
		send(RawEvent{Type: EvAbs, Code: AbsMTPositionY, Value: int32(ev.Position.Y), Timestamp: now})
		send(RawEvent{Type: EvAbs, Code: AbsMTPressure, Value: 60, Timestamp: now})
	case pointer.Drag:
		send(RawEvent{Type: EvAbs, Code: AbsMTPositionX, Value: int32(ev.Position.X), Timestamp: now})
		send(RawEvent{Type: EvAbs, Code: AbsMTPositionY, Value: int32(ev.Position.Y), Timestamp: now})
	case pointer.Release:
		send(RawEvent{Type: EvAbs, Code: AbsMTTrackingID, Value: -1, Timestamp: now})
	default:
		return
	}
	send(RawEvent{Type: EvSyn, Code: SynReport, Timestamp: now})
}

// hostKeyCode maps a subset of gio's key names onto evdev KEY_* codes,
// enough to exercise the keystream pipeline on a development machine.
func hostKeyCode(name key.Name) (uint16, bool) {
	switch name {
	case key.NameSpace:
		return uint16(0x39), true // KEY_SPACE
	case key.NameReturn, key.NameEnter:
		return uint16(0x1c), true // KEY_ENTER
	case key.NameDeleteBackward:
		return uint16(0x0e), true // KEY_BACKSPACE
	}
	if len(name) == 1 {
		r := rune(name[0])
		switch {
		case r >= 'a' && r <= 'z':
			return qwertyLetterCode(r), true
		case r >= 'A' && r <= 'Z':
			return qwertyLetterCode(r + ('a' - 'A')), true
		}
	}
	return 0, false
}

// qwertyLetterCode maps a lowercase ASCII letter to its evdev KEY_* code
// on a standard QWERTY layout.
func qwertyLetterCode(r rune) uint16 {
	row1 := "qwertyuiop"
	row2 := "asdfghjkl"
	row3 := "zxcvbnm"
	if i := indexRune(row1, r); i >= 0 {
		return uint16(16 + i)
	}
	if i := indexRune(row2, r); i >= 0 {
		return uint16(30 + i)
	}
	if i := indexRune(row3, r); i >= 0 {
		return uint16(44 + i)
	}
	return 0
}

func indexRune(s string, r rune) int {
	for i, c := range s {
		if c == r {
			return i
		}
	}
	return -1
}

// hostStream adapts one of hostBackend's two channels to the Stream
// interface; Grab/Ungrab are no-ops since the host window has no
// competing consumer to exclude.
type hostStream struct {
	events <-chan RawEvent
}

func (s *hostStream) Events() <-chan RawEvent { return s.events }
func (s *hostStream) Grab() error              { return nil }
func (s *hostStream) Ungrab() error            { return nil }
func (s *hostStream) Close() error             { return nil }

// hostSource implements Source on non-Linux development platforms using a
// gio window as a stand-in for real /dev/input hardware (SPEC_FULL.md
// domain-stack plan).
type hostSource struct{}

func newHostSource() Source { return hostSource{} }

func (hostSource) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{
		Path: HostKeyboardPath,
		ID:   DeviceID{Bus: 0, Vendor: 0, Product: 1},
		Name: "tabula-host-keyboard",
	}}, nil
}

func (hostSource) Open(path string) (Stream, error) {
	shared.ensureStarted()
	switch path {
	case HostTouchscreenPath:
		return &hostStream{events: shared.touch}, nil
	default:
		return &hostStream{events: shared.keyEvents}, nil
	}
}

// NewSource returns the platform-appropriate Source: real evdev on Linux,
// the gio host backend everywhere else.
func NewSource() Source {
	return newHostSource()
}
