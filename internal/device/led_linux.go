//go:build linux

package device

import (
	"encoding/binary"
	"os"
)

// EV_LED and the two LED codes this adapter drives (spec.md §4.3).
const (
	evLED      uint16 = 0x11
	ledCapsLock uint16 = 0x01
	ledCompose  uint16 = 0x03 // LED_COMPOSE on keyboards that carry one; otherwise unused
)

// LEDWriter issues capslock/compose LED writes to the active keyboard,
// caching last-written state so a write is only issued on change (§4.3).
type LEDWriter struct {
	f            *os.File
	capsLockOn   bool
	composeOn    bool
	everWritten  bool
}

// NewLEDWriter wraps an already-open keyboard device file for LED output.
func NewLEDWriter(f *os.File) *LEDWriter {
	return &LEDWriter{f: f}
}

// Sync writes any LED state that changed since the last call.
func (w *LEDWriter) Sync(capsLockOn, composeOn bool) error {
	if w.everWritten && capsLockOn == w.capsLockOn && composeOn == w.composeOn {
		return nil
	}
	if !w.everWritten || capsLockOn != w.capsLockOn {
		if err := w.write(ledCapsLock, capsLockOn); err != nil {
			return err
		}
	}
	if !w.everWritten || composeOn != w.composeOn {
		if err := w.write(ledCompose, composeOn); err != nil {
			return err
		}
	}
	w.capsLockOn, w.composeOn, w.everWritten = capsLockOn, composeOn, true
	return nil
}

func (w *LEDWriter) write(code uint16, on bool) error {
	buf := make([]byte, eventSize)
	value := int32(0)
	if on {
		value = 1
	}
	binary.LittleEndian.PutUint16(buf[16:18], evLED)
	binary.LittleEndian.PutUint16(buf[18:20], code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(value))
	_, err := w.f.Write(buf)
	return err
}
