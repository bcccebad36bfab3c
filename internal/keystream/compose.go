package keystream

import (
	"context"

	"tabula/internal/events"
)

type composeState int

const (
	composePassthrough composeState = iota
	composeCollecting
)

// stageComposeResolution is pipeline stage 6 (§4.1), the heart of the
// compose-character resolution machinery. It is only installed when the
// active screen declares composes enabled.
func stageComposeResolution(ctx context.Context, in <-chan events.AnnotatedKeyEvent, composeTrie *trie) <-chan events.AnnotatedKeyEvent {
	out := make(chan events.AnnotatedKeyEvent)
	go func() {
		defer close(out)
		state := composePassthrough
		var devouredEvents []events.AnnotatedKeyEvent
		var devouredChars []rune

		emit := func(ev events.AnnotatedKeyEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		reset := func() {
			state = composePassthrough
			devouredEvents = nil
			devouredChars = nil
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				switch state {
				case composePassthrough:
					if ev.Key == events.KeyComposeSentinel {
						devouredEvents = nil
						devouredChars = nil
						state = composeCollecting
						if !emit(ev) {
							return
						}
						continue
					}
					if !emit(ev) {
						return
					}
				case composeCollecting:
					devouredEvents = append(devouredEvents, ev)
					if ev.IsModifier {
						continue
					}
					if ev.HasChar {
						devouredChars = append(devouredChars, ev.Character)
					}
					value, terminal, ok := composeTrie.lookup(devouredChars)
					switch {
					case ok && terminal:
						synth := events.AnnotatedKeyEvent{
							Key:        events.KeyComposeSentinel,
							Phase:      events.Pressed,
							Modifiers:  ev.Modifiers,
							IsModifier: true,
							IsLEDAble:  true,
						}
						synth.Modifiers.Compose = true
						synth = synth.WithCharacter(value)
						if !emit(synth) {
							return
						}
						reset()
					case ok:
						// still a valid prefix; keep collecting.
					default:
						fail := events.AnnotatedKeyEvent{
							Key:        events.KeyComposeSentinel,
							Phase:      events.Pressed,
							Modifiers:  ev.Modifiers,
							IsModifier: true,
							IsLEDAble:  true,
						}
						fail.Modifiers.Compose = false
						if !emit(fail) {
							return
						}
						for _, devoured := range devouredEvents {
							if !emit(devoured) {
								return
							}
						}
						reset()
					}
				}
			}
		}
	}()
	return out
}
