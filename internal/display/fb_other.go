//go:build !linux

package display

import (
	"image"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/op/paint"

	"tabula/internal/events"
)

// HostSink renders the shadow image into a gio window, standing in for the
// e-ink panel on development platforms that have no /dev/fb0-style device
// (SPEC_FULL.md domain-stack plan, mirrored from internal/device's gio host
// backend for input).
type HostSink struct {
	win  *app.Window
	info ScreenInfo
	img  *image.Gray
	push chan Push
}

// NewHostSink opens a window sized to info and returns a Sink that paints
// every pushed rectangle into it.
func NewHostSink(info ScreenInfo) *HostSink {
	h := &HostSink{
		info: info,
		img:  image.NewGray(image.Rect(0, 0, info.Size.W, info.Size.H)),
		push: make(chan Push, 64),
	}
	go func() {
		h.win = new(app.Window)
		h.win.Option(app.Title("Tabula (host display)"))
		if err := h.loop(); err != nil {
			os.Exit(1)
		}
	}()
	return h
}

func (h *HostSink) Push(rect events.Rect, pixels []byte) error {
	for row := 0; row < rect.H; row++ {
		y := rect.Y + row
		copy(h.img.Pix[y*h.img.Stride+rect.X:y*h.img.Stride+rect.X+rect.W], pixels[row*rect.W:(row+1)*rect.W])
	}
	select {
	case h.push <- Push{Rect: rect, Pixels: pixels}:
	default:
	}
	if h.win != nil {
		h.win.Invalidate()
	}
	return nil
}

func (h *HostSink) ScreenInfo() ScreenInfo { return h.info }

func (h *HostSink) loop() error {
	var ops op.Ops
	for {
		switch e := h.win.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			paint.NewImageOp(h.img).Add(gtx.Ops)
			paint.PaintOp{}.Add(gtx.Ops)
			e.Frame(gtx.Ops)
		}
	}
}

// WaitForPush blocks until at least one rectangle has been pushed or the
// deadline elapses, since the host window's render loop runs
// asynchronously from Push's caller.
func (h *HostSink) WaitForPush(timeout time.Duration) (Push, bool) {
	select {
	case p := <-h.push:
		return p, true
	case <-time.After(timeout):
		return Push{}, false
	}
}

// NewDefaultSink ignores path (there is no framebuffer device on
// non-Linux dev hosts) and opens a gio window instead.
func NewDefaultSink(path string, info ScreenInfo) (Sink, error) {
	return NewHostSink(info), nil
}
