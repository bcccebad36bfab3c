//go:build linux

package display

import (
	"encoding/binary"
	"os"

	"tabula/internal/events"
)

// FramebufferSink pushes rectangles to the e-ink panel's character device
// as a length-prefixed rect header followed by raw grayscale bytes. The
// actual waveform/refresh handling lives in the external renderer process
// (spec.md §1 lists rendering itself out of scope); this sink only owns
// the byte transport, grounded on internal/device's plain os.OpenFile
// handling of Linux character devices.
type FramebufferSink struct {
	f    *os.File
	info ScreenInfo
}

// OpenFramebuffer opens the device at path and reports info as its fixed
// screen geometry (queried out-of-band on real hardware, here supplied by
// the caller since there is no standard ioctl for it across panel models).
func OpenFramebuffer(path string, info ScreenInfo) (*FramebufferSink, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return &FramebufferSink{f: f, info: info}, nil
}

func (s *FramebufferSink) Push(rect events.Rect, pixels []byte) error {
	var header [16]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(rect.X))
	binary.LittleEndian.PutUint32(header[4:8], uint32(rect.Y))
	binary.LittleEndian.PutUint32(header[8:12], uint32(rect.W))
	binary.LittleEndian.PutUint32(header[12:16], uint32(rect.H))
	if _, err := s.f.Write(header[:]); err != nil {
		return err
	}
	_, err := s.f.Write(pixels)
	return err
}

func (s *FramebufferSink) ScreenInfo() ScreenInfo { return s.info }

// Close closes the underlying device file.
func (s *FramebufferSink) Close() error { return s.f.Close() }

// NewDefaultSink opens the real Linux framebuffer device at path.
func NewDefaultSink(path string, info ScreenInfo) (Sink, error) {
	return OpenFramebuffer(path, info)
}
