// Package config handles configuration loading and validation for tabula.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// tomlFont mirrors the settings file's drafting_fonts table entries.
type tomlFont struct {
	Family string         `toml:"family" json:"family"`
	Sizes  map[string]int `toml:"sizes" json:"sizes"`
}

// tomlDoc is the on-disk shape of the settings file (spec.md §6). It is
// decoded once (via toml.Decode, the BurntSushi way the teacher's config
// loader already used) into this struct; the struct is then re-encoded as
// JSON, with unset fields omitted, for schema validation, and toSettings
// converts it.
type tomlDoc struct {
	ComposeKey              string            `toml:"compose_key" json:"compose_key,omitempty"`
	Keymaps                 map[string][2]string `toml:"keymaps" json:"keymaps,omitempty"`
	ComposeSequences        map[string]string `toml:"compose_sequences" json:"compose_sequences,omitempty"`
	DraftingFonts           []tomlFont        `toml:"drafting_fonts" json:"drafting_fonts,omitempty"`
	ActiveFont              string            `toml:"active_font" json:"active_font,omitempty"`
	DBPath                  string            `toml:"db_path" json:"db_path,omitempty"`
	ExportPath              string            `toml:"export_path" json:"export_path,omitempty"`
	AutosaveIntervalSeconds int               `toml:"autosave_interval_seconds" json:"autosave_interval_seconds,omitempty"`
	MaxEditableAgeSeconds   int               `toml:"max_editable_age_seconds" json:"max_editable_age_seconds,omitempty"`
}

func (d tomlDoc) toSettings() Settings {
	def := DefaultSettings()
	s := Settings{
		ComposeKey:       d.ComposeKey,
		Keymap:           d.Keymaps,
		ComposeSequences: d.ComposeSequences,
		ActiveFont:       d.ActiveFont,
		DBPath:           d.DBPath,
		ExportPath:       d.ExportPath,
		AutosaveInterval: def.AutosaveInterval,
		MaxEditableAge:   def.MaxEditableAge,
	}
	for _, f := range d.DraftingFonts {
		s.DraftingFonts = append(s.DraftingFonts, Font{Family: f.Family, Sizes: f.Sizes})
	}
	if d.AutosaveIntervalSeconds > 0 {
		s.AutosaveInterval = time.Duration(d.AutosaveIntervalSeconds) * time.Second
	}
	if d.MaxEditableAgeSeconds > 0 {
		s.MaxEditableAge = time.Duration(d.MaxEditableAgeSeconds) * time.Second
	}
	return s
}

var compiledSchema *jsonschema.Schema

func compileSchema() (*jsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("settings.json", strings.NewReader(settingsSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("settings.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	compiledSchema = schema
	return schema, nil
}

// Load reads the settings file at path, decodes it as TOML, validates
// the decoded document against the JSON Schema, and validates the
// resulting Settings's field-level invariants. Any failure at any stage
// is fatal: the appliance has no notion of a partially valid settings
// file (spec.md §7).
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var doc tomlDoc
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return Settings{}, fmt.Errorf("decode settings toml: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return Settings{}, err
	}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return Settings{}, fmt.Errorf("marshal settings for schema check: %w", err)
	}
	var instance any
	if err := json.Unmarshal(jsonBytes, &instance); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings for schema check: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return Settings{}, fmt.Errorf("settings file does not match schema: %w", err)
	}

	settings := doc.toSettings()
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}
