package config

// settingsSchema is the JSON Schema the decoded settings document must
// satisfy before field-level Validate runs. Checking shape (required
// keys, types) here and invariants (key names, font references) in
// Validate gives two independent "malformed settings is fatal" checks
// over the same document, per spec.md §7.
const settingsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["drafting_fonts", "active_font", "db_path", "export_path"],
  "properties": {
    "compose_key": {"type": "string"},
    "keymaps": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {"type": "string"},
        "minItems": 2,
        "maxItems": 2
      }
    },
    "compose_sequences": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    },
    "drafting_fonts": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["family", "sizes"],
        "properties": {
          "family": {"type": "string"},
          "sizes": {
            "type": "object",
            "additionalProperties": {"type": "integer", "minimum": 1}
          }
        }
      }
    },
    "active_font": {"type": "string"},
    "db_path": {"type": "string", "minLength": 1},
    "export_path": {"type": "string", "minLength": 1},
    "autosave_interval_seconds": {"type": "integer", "minimum": 1},
    "max_editable_age_seconds": {"type": "integer", "minimum": 1}
  }
}`
