package keystream

import (
	"context"

	"tabula/internal/events"
)

// stageReleaseFilter is pipeline stage 2 (§4.1): drops RELEASED events, so
// everything downstream of here is press-only.
func stageReleaseFilter(ctx context.Context, in <-chan events.AnnotatedKeyEvent) <-chan events.AnnotatedKeyEvent {
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
				if ev.Phase == events.Released {
					continue
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
