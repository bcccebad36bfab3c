package config

import "tabula/internal/events"

// keyCodeNames maps the settings file's symbolic key names (the form a
// human editing a TOML file writes, mirroring Linux's KEY_* names) onto
// the closed events.KeyCode enumeration.
var keyCodeNames = map[string]events.KeyCode{
	"KEY_ESC":         events.KeyEsc,
	"KEY_1":           events.Key1,
	"KEY_2":           events.Key2,
	"KEY_3":           events.Key3,
	"KEY_4":           events.Key4,
	"KEY_5":           events.Key5,
	"KEY_6":           events.Key6,
	"KEY_7":           events.Key7,
	"KEY_8":           events.Key8,
	"KEY_9":           events.Key9,
	"KEY_0":           events.Key0,
	"KEY_MINUS":       events.KeyMinus,
	"KEY_EQUAL":       events.KeyEqual,
	"KEY_BACKSPACE":   events.KeyBackspace,
	"KEY_TAB":         events.KeyTab,
	"KEY_Q":           events.KeyQ,
	"KEY_W":           events.KeyW,
	"KEY_E":           events.KeyE,
	"KEY_R":           events.KeyR,
	"KEY_T":           events.KeyT,
	"KEY_Y":           events.KeyY,
	"KEY_U":           events.KeyU,
	"KEY_I":           events.KeyI,
	"KEY_O":           events.KeyO,
	"KEY_P":           events.KeyP,
	"KEY_LEFTBRACE":   events.KeyLeftBrace,
	"KEY_RIGHTBRACE":  events.KeyRightBrace,
	"KEY_ENTER":       events.KeyEnter,
	"KEY_LEFTCTRL":    events.KeyLeftCtrl,
	"KEY_A":           events.KeyA,
	"KEY_S":           events.KeyS,
	"KEY_D":           events.KeyD,
	"KEY_F":           events.KeyF,
	"KEY_G":           events.KeyG,
	"KEY_H":           events.KeyH,
	"KEY_J":           events.KeyJ,
	"KEY_K":           events.KeyK,
	"KEY_L":           events.KeyL,
	"KEY_SEMICOLON":   events.KeySemicolon,
	"KEY_APOSTROPHE":  events.KeyApostrophe,
	"KEY_GRAVE":       events.KeyGrave,
	"KEY_LEFTSHIFT":   events.KeyLeftShift,
	"KEY_BACKSLASH":   events.KeyBackslash,
	"KEY_Z":           events.KeyZ,
	"KEY_X":           events.KeyX,
	"KEY_C":           events.KeyC,
	"KEY_V":           events.KeyV,
	"KEY_B":           events.KeyB,
	"KEY_N":           events.KeyN,
	"KEY_M":           events.KeyM,
	"KEY_COMMA":       events.KeyComma,
	"KEY_DOT":         events.KeyDot,
	"KEY_SLASH":       events.KeySlash,
	"KEY_RIGHTSHIFT":  events.KeyRightShift,
	"KEY_LEFTALT":     events.KeyLeftAlt,
	"KEY_SPACE":       events.KeySpace,
	"KEY_CAPSLOCK":    events.KeyCapsLock,
	"KEY_RIGHTCTRL":   events.KeyRightCtrl,
	"KEY_RIGHTALT":    events.KeyRightAlt,
	"KEY_LEFTMETA":    events.KeyLeftMeta,
	"KEY_RIGHTMETA":   events.KeyRightMeta,
	"KEY_COMPOSE":     events.KeyCompose,
}

// keyCodeByName resolves a symbolic key name, returning an error that
// names the offending string on failure (malformed settings is fatal at
// startup per spec.md §7).
func keyCodeByName(name string) (events.KeyCode, error) {
	code, ok := keyCodeNames[name]
	if !ok {
		return 0, &ValidationError{Field: "keymaps", Message: "unknown key name " + name}
	}
	return code, nil
}
