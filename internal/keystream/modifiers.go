package keystream

import (
	"context"
	"unicode"

	"tabula/internal/events"
)

// modifierState is stage 1's private bookkeeping: a held-boolean per
// momentary modifier key and a latched-boolean per lock key.
type modifierState struct {
	leftShift, rightShift   bool
	leftCtrl, rightCtrl     bool
	leftAlt, rightAlt       bool
	leftMeta, rightMeta     bool
	capsLock                bool
}

func (m *modifierState) isMomentary(k events.KeyCode) bool {
	switch k {
	case events.KeyLeftShift, events.KeyRightShift,
		events.KeyLeftCtrl, events.KeyRightCtrl,
		events.KeyLeftAlt, events.KeyRightAlt,
		events.KeyLeftMeta, events.KeyRightMeta:
		return true
	}
	return false
}

func (m *modifierState) isLock(k events.KeyCode) bool {
	return k == events.KeyCapsLock
}

// apply updates held/latched state for one raw event and returns whether
// the key participated in modifier bookkeeping at all (is_modifier).
func (m *modifierState) apply(ev events.KeyEvent) bool {
	held := ev.Phase != events.Released
	switch ev.Key {
	case events.KeyLeftShift:
		m.leftShift = held
	case events.KeyRightShift:
		m.rightShift = held
	case events.KeyLeftCtrl:
		m.leftCtrl = held
	case events.KeyRightCtrl:
		m.rightCtrl = held
	case events.KeyLeftAlt:
		m.leftAlt = held
	case events.KeyRightAlt:
		m.rightAlt = held
	case events.KeyLeftMeta:
		m.leftMeta = held
	case events.KeyRightMeta:
		m.rightMeta = held
	case events.KeyCapsLock:
		if ev.Phase == events.Pressed {
			m.capsLock = !m.capsLock
		}
		return true
	default:
		return false
	}
	return true
}

func (m *modifierState) annotation() events.Modifiers {
	return events.Modifiers{
		Alt:      m.leftAlt || m.rightAlt,
		Ctrl:     m.leftCtrl || m.rightCtrl,
		Meta:     m.leftMeta || m.rightMeta,
		Shift:    m.leftShift || m.rightShift,
		CapsLock: m.capsLock,
	}
}

// stageModifierTracking is keystream pipeline stage 1 (§4.1). It is a pure
// function of the history of events it has seen, which is what gives the
// modifier annotation of every downstream event its "pure function of key
// history" testable property (§8).
func stageModifierTracking(ctx context.Context, in <-chan events.KeyEvent) <-chan events.AnnotatedKeyEvent {
	out := make(chan events.AnnotatedKeyEvent)
	go func() {
		defer close(out)
		state := &modifierState{}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				isMod := state.apply(ev)
				annotated := events.AnnotatedKeyEvent{
					Key:        ev.Key,
					Phase:      ev.Phase,
					Modifiers:  state.annotation(),
					IsModifier: isMod,
					IsLEDAble:  state.isLock(ev.Key),
				}
				select {
				case out <- annotated:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// isLetter reports whether r belongs to a Unicode category beginning with
// L, used by stage 3 to decide whether capslock affects a key.
func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}
