package display

import "tabula/internal/events"

// MemorySink is an in-memory Sink used by tests: it records every pushed
// rectangle instead of writing to hardware. The non-Linux dev host backend
// uses HostSink instead.
type MemorySink struct {
	info   ScreenInfo
	Pushes []Push
}

// Push is one recorded call to MemorySink.Push.
type Push struct {
	Rect   events.Rect
	Pixels []byte
}

// NewMemorySink creates a MemorySink reporting the given screen geometry.
func NewMemorySink(info ScreenInfo) *MemorySink {
	return &MemorySink{info: info}
}

func (m *MemorySink) Push(rect events.Rect, pixels []byte) error {
	buf := append([]byte(nil), pixels...)
	m.Pushes = append(m.Pushes, Push{Rect: rect, Pixels: buf})
	return nil
}

func (m *MemorySink) ScreenInfo() ScreenInfo { return m.info }
