package keystream

import (
	"context"

	"tabula/internal/events"
)

type syntheticState int

const (
	syntheticPassthrough syntheticState = iota
	syntheticCollecting
)

// newSyntheticTrie builds the small trie stage 5 matches against. At
// minimum it recognizes "compose, compose" -> the synthesized doubletap
// key (§4.1 stage 5); additional synthetic sequences could be registered
// here the same way without touching the state machine below.
func newSyntheticTrie() *trie {
	t := newTrie()
	t.insert([]rune{rune(events.KeyComposeSentinel), rune(events.KeyComposeSentinel)}, rune(events.KeySyntheticComposeDoubletap))
	return t
}

// stageSyntheticSequence is pipeline stage 5 (§4.1): a small trie over
// KEY_COMPOSE-prefixed key sequences. Incoming events always pass through;
// while a prefix is being collected, matched events are also buffered, and
// on a terminal match a synthesized event is additionally emitted. This
// stage is only installed when the active screen enables compose
// resolution (§4.1 "Configuration toggle").
func stageSyntheticSequence(ctx context.Context, in <-chan events.AnnotatedKeyEvent, seqTrie *trie) <-chan events.AnnotatedKeyEvent {
	out := make(chan events.AnnotatedKeyEvent)
	go func() {
		defer close(out)
		state := syntheticPassthrough
		var buffer []rune
		emit := func(ev events.AnnotatedKeyEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				if !emit(ev) {
					return
				}
				if ev.Key != events.KeyComposeSentinel {
					state = syntheticPassthrough
					buffer = nil
					continue
				}
				switch state {
				case syntheticPassthrough:
					buffer = []rune{rune(ev.Key)}
				case syntheticCollecting:
					buffer = append(buffer, rune(ev.Key))
				}
				value, terminal, ok := seqTrie.lookup(buffer)
				switch {
				case ok && terminal:
					synth := events.AnnotatedKeyEvent{
						Key:        events.KeyCode(value),
						Phase:      events.Pressed,
						Modifiers:  ev.Modifiers,
						IsModifier: true,
					}
					if !emit(synth) {
						return
					}
					state = syntheticPassthrough
					buffer = nil
				case ok:
					state = syntheticCollecting
				default:
					state = syntheticPassthrough
					buffer = nil
				}
			}
		}
	}()
	return out
}
