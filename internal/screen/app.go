package screen

import "tabula/internal/config"

// SettingsBox holds the application's single shared Settings record.
// Settings are immutable (spec.md §9 "Configuration object"); changing
// the active font replaces the whole record rather than mutating one in
// place. Since every screen runs on the single cooperative event loop
// (spec.md §5), no locking guards this box.
type SettingsBox struct {
	Settings config.Settings
}
