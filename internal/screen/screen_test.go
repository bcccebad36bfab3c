package screen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tabula/internal/display"
	"tabula/internal/events"
)

func testDisplay() *display.Display {
	return display.New(display.NewMemorySink(display.ScreenInfo{Size: events.Size{W: 8, H: 8}}))
}

// verbScreen returns a fixed Verb as soon as Run is invoked.
type verbScreen struct{ verb Verb }

func (s verbScreen) Run(ctx context.Context, in <-chan events.Event) Verb { return s.verb }

func TestDispatcherCloseEmptiesStack(t *testing.T) {
	evs := make(chan events.Event)
	d := NewDispatcher(evs, testDisplay(), time.Minute, nil)
	d.Push(verbScreen{verb: Close{}})

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not return after stack emptied")
	}
}

func TestDispatcherChangeScreenReplaceAll(t *testing.T) {
	evs := make(chan events.Event)
	second := verbScreen{verb: Close{}}
	first := verbScreen{verb: ChangeScreen{Next: second, Behavior: ReplaceAll}}

	d := NewDispatcher(evs, testDisplay(), time.Minute, nil)
	d.Push(first)

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not settle after ReplaceAll then Close")
	}
}

func TestDispatcherShutdownClearsStackAndRunsHook(t *testing.T) {
	evs := make(chan events.Event)
	shutdownCalled := false
	d := NewDispatcher(evs, testDisplay(), time.Minute, func(ctx context.Context) error {
		shutdownCalled = true
		return nil
	})
	d.Push(verbScreen{verb: Shutdown{}})

	err := d.Run(context.Background())
	require.NoError(t, err)
	require.True(t, shutdownCalled)
}

func TestMergeEventsFansInAllThreeSources(t *testing.T) {
	keys := make(chan events.AnnotatedKeyEvent, 1)
	taps := make(chan events.TapEvent)
	bus := make(chan events.Event)

	merged := MergeEvents(keys, taps, bus)
	keys <- events.AnnotatedKeyEvent{Key: events.KeyA}
	close(keys)
	close(taps)
	close(bus)

	select {
	case ev := <-merged:
		k, ok := ev.(events.AnnotatedKeyEvent)
		require.True(t, ok)
		require.Equal(t, events.KeyA, k.Key)
	case <-time.After(time.Second):
		t.Fatal("merged channel produced nothing")
	}
}
