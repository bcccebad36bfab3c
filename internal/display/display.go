// Package display implements the display driver façade (spec.md §4.4): a
// shadow image mirroring the framebuffer, damage-diffed blits, and a
// single-slot save/restore stack for modal overlays.
package display

import (
	"errors"

	"tabula/internal/events"
)

// Sink is the external framebuffer boundary (spec.md §4.4 "Framebuffer
// sink"): push a sub-rectangle of 8-bit grayscale pixels to the hardware,
// and report the hardware's notion of screen geometry.
type Sink interface {
	Push(rect events.Rect, pixels []byte) error
	ScreenInfo() ScreenInfo
}

// ScreenInfo is the hardware's static geometry, queried once at startup.
type ScreenInfo struct {
	Size     events.Size
	DPI      int
	Rotation events.Rotation
}

// WaveformMode is an advisory refresh mode. The façade only stores it:
// Sink.Push takes no mode, so it does not reach the hardware call.
type WaveformMode int

const (
	WaveformAuto WaveformMode = iota
	WaveformFast
	WaveformHighQuality
)

var errNoSavedScreen = errors.New("display: no saved screen to restore")

// Display is the shadow-image façade every screen draws through. It is
// accessed only from the single cooperative event loop (spec.md §5), so
// it carries no internal locking.
type Display struct {
	sink Sink
	info ScreenInfo

	shadow []byte // info.Size.W * info.Size.H bytes, row-major grayscale
	saved  []byte // single-slot save/restore stack; nil when empty

	waveform WaveformMode
}

// New creates a Display backed by sink, sized to sink's reported screen.
func New(sink Sink) *Display {
	info := sink.ScreenInfo()
	return &Display{
		sink:   sink,
		info:   info,
		shadow: make([]byte, info.Size.W*info.Size.H),
	}
}

// ScreenInfo returns the hardware geometry this display was built for.
func (d *Display) ScreenInfo() ScreenInfo { return d.info }

// SetWaveformMode records the advisory mode on the Display. Blit does not
// pass it to the Sink.
func (d *Display) SetWaveformMode(mode WaveformMode) { d.waveform = mode }

// Clear fills the shadow with background (0xFF, white) and pushes the
// full screen to hardware.
func (d *Display) Clear() error {
	for i := range d.shadow {
		d.shadow[i] = 0xFF
	}
	full := events.Rect{X: 0, Y: 0, W: d.info.Size.W, H: d.info.Size.H}
	return d.sink.Push(full, d.shadow)
}

// SaveScreen pushes a copy of the current shadow onto the single-slot
// stack, overwriting whatever was previously saved.
func (d *Display) SaveScreen() {
	d.saved = append([]byte(nil), d.shadow...)
}

// RestoreScreen pops the saved shadow back onto the screen and clears the
// slot. It is an error to call this with nothing saved.
func (d *Display) RestoreScreen() error {
	if d.saved == nil {
		return errNoSavedScreen
	}
	rect := events.Rect{X: 0, Y: 0, W: d.info.Size.W, H: d.info.Size.H}
	if err := d.blitRaw(rect, d.saved); err != nil {
		return err
	}
	d.saved = nil
	return nil
}

// Blit composes pixels onto the shadow at rect, computes the bounding box
// of the actual pixel difference, and pushes only that sub-rectangle to
// hardware. An unchanged blit is a no-op (spec.md §4.4).
func (d *Display) Blit(rect events.Rect, pixels []byte) error {
	damage, changed := d.compose(rect, pixels)
	if !changed {
		return nil
	}
	return d.pushRect(damage)
}

// blitRaw composes without damage diffing (used by RestoreScreen, which
// must push the whole saved frame regardless of what differs).
func (d *Display) blitRaw(rect events.Rect, pixels []byte) error {
	d.compose(rect, pixels)
	return d.pushRect(rect)
}

// compose writes pixels into the shadow at rect and returns the bounding
// box of bytes that actually changed, and whether anything changed.
func (d *Display) compose(rect events.Rect, pixels []byte) (events.Rect, bool) {
	damage := events.Rect{}
	changed := false
	for row := 0; row < rect.H; row++ {
		y := rect.Y + row
		if y < 0 || y >= d.info.Size.H {
			continue
		}
		for col := 0; col < rect.W; col++ {
			x := rect.X + col
			if x < 0 || x >= d.info.Size.W {
				continue
			}
			src := pixels[row*rect.W+col]
			idx := y*d.info.Size.W + x
			if d.shadow[idx] == src {
				continue
			}
			d.shadow[idx] = src
			changed = true
			point := events.Rect{X: x, Y: y, W: 1, H: 1}
			damage = damage.Union(point)
		}
	}
	return damage, changed
}

// pushRect extracts damage's pixels from the shadow and pushes them.
func (d *Display) pushRect(rect events.Rect) error {
	if rect.Empty() {
		return nil
	}
	buf := make([]byte, rect.W*rect.H)
	for row := 0; row < rect.H; row++ {
		y := rect.Y + row
		copy(buf[row*rect.W:(row+1)*rect.W], d.shadow[y*d.info.Size.W+rect.X:y*d.info.Size.W+rect.X+rect.W])
	}
	return d.sink.Push(rect, buf)
}
