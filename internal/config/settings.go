// Package config loads and validates the appliance's settings file
// (spec.md §6): keymaps, compose sequences, drafting fonts, and the
// handful of paths and durations the rest of the appliance needs at
// startup.
package config

import "time"

// Font is one entry of the settings file's `drafting_fonts` list: a font
// family with the small/medium/large point sizes §5 requires it support.
type Font struct {
	Family string
	Sizes  map[string]int // named size ("small","medium","large") -> points
}

// Settings is the fully parsed, validated settings document. It is treated
// as an immutable record: changing the active font (or any other field)
// produces a new value rather than mutating a shared one, so screens that
// captured a *Settings snapshot never see it move under them mid-session
// (spec.md §9, "Configuration object").
type Settings struct {
	ComposeKey       string
	Keymap           map[string][2]string
	ComposeSequences map[string]string
	DraftingFonts    []Font
	ActiveFont       string
	DBPath           string
	ExportPath       string
	AutosaveInterval time.Duration
	MaxEditableAge   time.Duration
}

// WithFont returns a copy of s with ActiveFont set to name. It does not
// check that name names a configured font; callers that accept user
// input should validate against DraftingFonts first.
func (s Settings) WithFont(name string) Settings {
	s.ActiveFont = name
	return s
}

// Font looks up a configured drafting font by family name.
func (s Settings) Font(family string) (Font, bool) {
	for _, f := range s.DraftingFonts {
		if f.Family == family {
			return f, true
		}
	}
	return Font{}, false
}
