package keystream

import (
	"context"

	"tabula/internal/events"
)

// stageComposeNormalization is pipeline stage 4 (§4.1). Any event whose key
// matches the configured compose key is replaced by a synthetic event
// bearing the stable KeyComposeSentinel identity, regardless of which
// physical key the settings file bound to "compose".
func stageComposeNormalization(ctx context.Context, in <-chan events.AnnotatedKeyEvent, composeKey events.KeyCode) <-chan events.AnnotatedKeyEvent {
	out := make(chan events.AnnotatedKeyEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-in:
				if !ok {
					return
				}
				if ev.Key == composeKey {
					ev = events.AnnotatedKeyEvent{
						Key:        events.KeyComposeSentinel,
						Phase:      ev.Phase,
						Modifiers:  ev.Modifiers,
						IsModifier: true,
						IsLEDAble:  true,
					}
					ev.Modifiers.Compose = true
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
