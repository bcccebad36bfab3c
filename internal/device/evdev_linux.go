//go:build linux

package device

import (
	"encoding/binary"
	"errors"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// evIoctlGrab is EVIOCGRAB, the exclusive-grab ioctl request number for
// Linux's input subsystem (_IOW('E', 0x90, int)).
const evIoctlGrab = 0x40044590

// eventSize is the on-wire size of struct input_event on a 64-bit kernel
// (two 8-byte timeval fields on most architectures, then type/code/value).
const eventSize = 24

type evdevStream struct {
	f      *os.File
	events chan RawEvent
	done   chan struct{}
	leds   *LEDWriter
}

func openEvdevStream(path string) (Stream, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	s := &evdevStream{f: f, events: make(chan RawEvent, 16), done: make(chan struct{})}
	s.leds = NewLEDWriter(f)
	go s.readLoop()
	return s, nil
}

// SyncLEDs implements LEDCapable.
func (s *evdevStream) SyncLEDs(capsLockOn, composeOn bool) error {
	return s.leds.Sync(capsLockOn, composeOn)
}

func (s *evdevStream) readLoop() {
	defer close(s.events)
	buf := make([]byte, eventSize)
	for {
		n, err := s.f.Read(buf)
		if err != nil {
			if errors.Is(err, os.ErrClosed) {
				return
			}
			if errors.Is(err, syscall.ENODEV) {
				return
			}
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		if n < eventSize {
			continue
		}
		ev := RawEvent{
			Type:      binary.LittleEndian.Uint16(buf[16:18]),
			Code:      binary.LittleEndian.Uint16(buf[18:20]),
			Value:     int32(binary.LittleEndian.Uint32(buf[20:24])),
			Timestamp: time.Now(),
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *evdevStream) Events() <-chan RawEvent { return s.events }

func (s *evdevStream) Grab() error {
	return unix.IoctlSetInt(int(s.f.Fd()), evIoctlGrab, 1)
}

func (s *evdevStream) Ungrab() error {
	return unix.IoctlSetInt(int(s.f.Fd()), evIoctlGrab, 0)
}

func (s *evdevStream) Close() error {
	close(s.done)
	return s.f.Close()
}
