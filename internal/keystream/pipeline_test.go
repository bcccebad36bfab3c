package keystream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tabula/internal/events"
)

func defaultKeymap() map[events.KeyCode]KeymapEntry {
	return map[events.KeyCode]KeymapEntry{
		events.KeyT:        {'t', 'T'},
		events.KeyA:        {'a', 'A'},
		events.KeyB:        {'b', 'B'},
		events.Key1:        {'1', '!'},
		events.KeyEqual:    {'=', '+'},
	}
}

func collect(t *testing.T, out <-chan events.AnnotatedKeyEvent, n int) []events.AnnotatedKeyEvent {
	t.Helper()
	var got []events.AnnotatedKeyEvent
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case ev := <-out:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for %d events, got %d", n, len(got))
		}
	}
	return got
}

// collectChars is collect restricted to character-bearing events: modifier
// presses such as shift or capslock pass through the pipeline too, and are
// skipped here.
func collectChars(t *testing.T, out <-chan events.AnnotatedKeyEvent, n int) []events.AnnotatedKeyEvent {
	t.Helper()
	var got []events.AnnotatedKeyEvent
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case ev := <-out:
			if ev.HasChar {
				got = append(got, ev)
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %d character events, got %d", n, len(got))
		}
	}
	return got
}

func feed(p *Pipeline, evs ...events.KeyEvent) {
	for _, ev := range evs {
		p.Input() <- ev
	}
}

func TestSimpleTyping(t *testing.T) {
	p := New(context.Background(), Config{Keymap: defaultKeymap()})
	defer p.Close()

	go feed(p,
		events.KeyEvent{Key: events.KeyLeftShift, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyT, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyT, Phase: events.Released},
		events.KeyEvent{Key: events.KeyLeftShift, Phase: events.Released},
		events.KeyEvent{Key: events.KeyA, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyA, Phase: events.Released},
		events.KeyEvent{Key: events.KeyB, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyB, Phase: events.Released},
	)

	got := collectChars(t, p.Output(), 3)
	require.Equal(t, []rune{'T', 'a', 'b'}, []rune{got[0].Character, got[1].Character, got[2].Character})
}

func TestCapslockAffectsLettersOnly(t *testing.T) {
	p := New(context.Background(), Config{Keymap: defaultKeymap()})
	defer p.Close()

	go feed(p,
		events.KeyEvent{Key: events.KeyCapsLock, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyA, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyA, Phase: events.Released},
		events.KeyEvent{Key: events.Key1, Phase: events.Pressed},
		events.KeyEvent{Key: events.Key1, Phase: events.Released},
		events.KeyEvent{Key: events.KeyEqual, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyEqual, Phase: events.Released},
	)

	got := collectChars(t, p.Output(), 3)
	require.Equal(t, []rune{'A', '1', '='}, []rune{got[0].Character, got[1].Character, got[2].Character})
}

func TestComposeGuillemet(t *testing.T) {
	keymap := defaultKeymap()
	keymap[events.KeySlash] = KeymapEntry{'<', '<'} // placeholder physical key carrying '<'
	cfg := Config{
		Keymap:         keymap,
		ComposeKey:     events.KeyCompose,
		EnableComposes: true,
		Composes: []ComposeSequence{
			{Input: []rune{'<', '<'}, Output: '«'},
		},
	}
	p := New(context.Background(), cfg)
	defer p.Close()

	go feed(p,
		events.KeyEvent{Key: events.KeyCompose, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyCompose, Phase: events.Released},
		events.KeyEvent{Key: events.KeySlash, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeySlash, Phase: events.Released},
		events.KeyEvent{Key: events.KeySlash, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeySlash, Phase: events.Released},
	)

	got := collect(t, p.Output(), 2)
	require.Equal(t, events.KeyComposeSentinel, got[0].Key)
	require.True(t, got[0].Modifiers.Compose)
	require.False(t, got[0].HasChar)
	require.Equal(t, '«', got[1].Character)
}

func TestComposeDoubletapSynthesis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// With stage 6 downstream, the second compose tap is consumed into a
	// (failing, since no two-compose sequence is registered) compose
	// attempt. This test therefore chains stages 1-5 directly, without
	// stage 6, to check doubletap recognition.
	input := make(chan events.KeyEvent)
	stage2 := stageReleaseFilter(ctx, stageModifierTracking(ctx, input))
	stage4 := stageComposeNormalization(ctx, stageCharacterMapping(ctx, stage2, defaultKeymap()), events.KeyCompose)
	out := stageSyntheticSequence(ctx, stage4, newSyntheticTrie())

	go func() {
		for _, ev := range []events.KeyEvent{
			{Key: events.KeyCompose, Phase: events.Pressed},
			{Key: events.KeyCompose, Phase: events.Released},
			{Key: events.KeyCompose, Phase: events.Pressed},
			{Key: events.KeyCompose, Phase: events.Released},
		} {
			select {
			case input <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	got := collect(t, out, 3)
	require.Equal(t, events.KeyComposeSentinel, got[0].Key)
	require.Equal(t, events.KeyComposeSentinel, got[1].Key)
	require.Equal(t, events.KeySyntheticComposeDoubletap, got[2].Key)
}

func TestComposeFailureSafety(t *testing.T) {
	keymap := defaultKeymap()
	keymap[events.KeyX] = KeymapEntry{'x', 'x'}
	keymap[events.KeyY] = KeymapEntry{'y', 'y'}
	cfg := Config{
		Keymap:         keymap,
		ComposeKey:     events.KeyCompose,
		EnableComposes: true,
		Composes: []ComposeSequence{
			{Input: []rune{'x', 'z'}, Output: 'Z'},
		},
	}
	p := New(context.Background(), cfg)
	defer p.Close()

	go feed(p,
		events.KeyEvent{Key: events.KeyCompose, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyX, Phase: events.Pressed},
		events.KeyEvent{Key: events.KeyY, Phase: events.Pressed},
	)

	got := collect(t, p.Output(), 4)
	require.Equal(t, events.KeyComposeSentinel, got[0].Key)
	require.True(t, got[0].Modifiers.Compose)
	require.Equal(t, events.KeyComposeSentinel, got[1].Key)
	require.False(t, got[1].Modifiers.Compose)
	require.Equal(t, 'x', got[2].Character)
	require.Equal(t, 'y', got[3].Character)
}
