package config

import (
	"tabula/internal/events"
	"tabula/internal/keystream"
)

// ToKeystreamConfig converts the validated settings document into the
// keystream pipeline's Config, resolving every symbolic key name to its
// events.KeyCode. Settings.Validate must have already succeeded, or this
// panics on the first unresolvable name: a settings file that passed
// validation can never name an unknown key.
func (s Settings) ToKeystreamConfig() keystream.Config {
	cfg := keystream.Config{
		Keymap:         make(map[events.KeyCode]keystream.KeymapEntry, len(s.Keymap)),
		EnableComposes: len(s.ComposeSequences) > 0,
	}

	if s.ComposeKey != "" {
		code, err := keyCodeByName(s.ComposeKey)
		if err != nil {
			panic("config: " + err.Error())
		}
		cfg.ComposeKey = code
	}

	for name, pair := range s.Keymap {
		code, err := keyCodeByName(name)
		if err != nil {
			panic("config: " + err.Error())
		}
		cfg.Keymap[code] = keystream.KeymapEntry{runeOrZero(pair[0]), runeOrZero(pair[1])}
	}

	for input, output := range s.ComposeSequences {
		cfg.Composes = append(cfg.Composes, keystream.ComposeSequence{
			Input:  []rune(input),
			Output: runeOrZero(output),
		})
	}

	return cfg
}

// runeOrZero returns the first rune of s, or 0 for an empty string (an
// unshifted/shifted keymap slot left blank, meaning "no character").
func runeOrZero(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
