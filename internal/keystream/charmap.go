package keystream

import (
	"context"

	"tabula/internal/events"
)

// KeymapEntry is [unshifted, shifted] for one physical key, as loaded from
// the settings file's `keymaps` table (spec.md §6).
type KeymapEntry [2]rune

// stageCharacterMapping is pipeline stage 3 (§4.1). It looks the key up in
// the keymap and resolves index 0 or 1 by `shift XOR (capslock AND key is a
// letter)`. Keys absent from the keymap pass through unchanged, and an
// event that already carries a character (HasChar) also passes through
// unchanged, which is what gives stage 3 its idempotence testable property
// (§8): re-running it on its own output is a no-op.
func stageCharacterMapping(ctx context.Context, in <-chan events.AnnotatedKeyEvent, keymap map[events.KeyCode]KeymapEntry) <-chan events.AnnotatedKeyEvent {
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
				if !ev.HasChar {
					if entry, present := keymap[ev.Key]; present {
						ev = ev.WithCharacter(resolveChar(entry, ev.Modifiers))
					}
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

func resolveChar(entry KeymapEntry, mods events.Modifiers) rune {
	unshifted, shifted := entry[0], entry[1]
	capslockApplies := mods.CapsLock && isLetter(unshifted)
	useShifted := mods.Shift != capslockApplies // XOR
	if useShifted {
		return shifted
	}
	return unshifted
}
