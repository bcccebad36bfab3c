// Package config handles configuration loading and validation for tabula.
package config

import (
	"fmt"
	"strings"
)

// ValidationError is one field-level settings problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("settings: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass, so a
// malformed settings file reports all of its faults instead of just the
// first (spec.md §7: malformed settings is fatal at startup).
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field-level invariants the JSON Schema pass in Load
// cannot express: that the compose key and every keymap entry name a
// real key code, that the active font is one of the configured fonts,
// and that the positive durations are actually positive.
func (s Settings) Validate() error {
	var errs ValidationErrors

	if s.ComposeKey != "" {
		if _, err := keyCodeByName(s.ComposeKey); err != nil {
			errs = append(errs, ValidationError{Field: "compose_key", Message: err.Error()})
		}
	}

	for name := range s.Keymap {
		if _, err := keyCodeByName(name); err != nil {
			errs = append(errs, ValidationError{Field: "keymaps", Message: err.Error()})
		}
	}

	if len(s.DraftingFonts) == 0 {
		errs = append(errs, ValidationError{Field: "drafting_fonts", Message: "at least one font must be configured"})
	}
	if s.ActiveFont != "" {
		if _, ok := s.Font(s.ActiveFont); !ok {
			errs = append(errs, ValidationError{Field: "active_font", Message: "not present in drafting_fonts: " + s.ActiveFont})
		}
	}

	if s.DBPath == "" {
		errs = append(errs, ValidationError{Field: "db_path", Message: "must not be empty"})
	}
	if s.ExportPath == "" {
		errs = append(errs, ValidationError{Field: "export_path", Message: "must not be empty"})
	}
	if s.AutosaveInterval <= 0 {
		errs = append(errs, ValidationError{Field: "autosave_interval", Message: "must be positive"})
	}
	if s.MaxEditableAge <= 0 {
		errs = append(errs, ValidationError{Field: "max_editable_age", Message: "must be positive"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
