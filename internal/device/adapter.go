package device

import (
	"context"
	"time"

	"tabula/internal/events"
)

// ScanInterval is the fixed cadence at which the adapter rescans for
// keyboards (spec.md §4.3: "Keyboard discovery scans on a fixed
// 0.2-second cadence").
const ScanInterval = 200 * time.Millisecond

// Config parameterizes an Adapter.
type Config struct {
	TouchscreenPath string
	Protocol        Protocol
	ScanInterval    time.Duration // zero defaults to ScanInterval
}

// Adapter is the sole producer of the raw streams the keystream and
// gesturestream pipelines consume: it hotplug-scans for keyboards, grabs
// one logical keyboard exclusively, assembles touchscreen frames, and
// drives the capslock/compose LEDs of whichever keyboard is grabbed.
type Adapter struct {
	source Source
	cfg    Config

	keyOut   chan events.KeyEvent
	touchOut chan events.TouchReport
	busOut   chan events.Event

	cancel context.CancelFunc

	rotation   events.Rotation
	screenSize events.Size

	active *grabbedGroup
}

// grabbedGroup is the logical keyboard currently holding the exclusive
// grab: possibly several sub-devices sharing one bus/vendor/product
// identifier (spec.md §4.3), each contributing its own Stream.
type grabbedGroup struct {
	key     string
	streams map[string]Stream // device path -> stream
}

// NewAdapter constructs an Adapter bound to the given Source (the
// platform's real evdev source on Linux, or a gio-backed host source
// elsewhere).
func NewAdapter(source Source, cfg Config) *Adapter {
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = ScanInterval
	}
	return &Adapter{
		source:     source,
		cfg:        cfg,
		keyOut:     make(chan events.KeyEvent, 64),
		touchOut:   make(chan events.TouchReport, 16),
		busOut:     make(chan events.Event, 8),
		rotation:   events.RotationNormal,
		screenSize: events.Size{W: 1404, H: 1872},
	}
}

// Run starts the keyboard discovery loop and, when a touchscreen path is
// configured, the touchscreen read loop. It returns once ctx is canceled,
// closing every output channel.
func (a *Adapter) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	done := make(chan struct{}, 2)
	go func() { a.keyboardDiscoveryLoop(ctx); done <- struct{}{} }()
	if a.cfg.TouchscreenPath != "" {
		go func() { a.touchscreenLoop(ctx); done <- struct{}{} }()
	} else {
		done <- struct{}{}
	}

	<-done
	<-done
	a.releaseActive()
	close(a.keyOut)
	close(a.touchOut)
	close(a.busOut)
}

// KeyEvents is the raw keyboard stream, fed to keystream stage 1.
func (a *Adapter) KeyEvents() <-chan events.KeyEvent { return a.keyOut }

// TouchReports is the raw touch stream, fed to gesturestream stage 1.
func (a *Adapter) TouchReports() <-chan events.TouchReport { return a.touchOut }

// Bus carries out-of-band events the pipelines don't consume, currently
// just KeyboardDisconnect.
func (a *Adapter) Bus() <-chan events.Event { return a.busOut }

// SetRotation updates the screen geometry used to transform touch
// coordinates (spec.md §4.3, SPEC_FULL.md Open Question resolution #2).
func (a *Adapter) SetRotation(rot events.Rotation, size events.Size) {
	a.rotation = rot
	a.screenSize = size
}

// Close stops every loop started by Run.
func (a *Adapter) Close() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *Adapter) keyboardDiscoveryLoop(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.scanOnce(ctx)
		}
	}
}

// scanOnce rescans available devices. If no keyboard is currently
// grabbed, it attempts to grab one logical group; while a group is active
// it does nothing. Releasing the grab and emitting KeyboardDisconnect when
// the active group's streams close is done by handleStreamGone.
func (a *Adapter) scanOnce(ctx context.Context) {
	devices, err := a.source.Devices()
	if err != nil {
		return
	}

	if a.active != nil {
		return // already grabbed; discovery resumes once it disconnects
	}

	groups := map[string][]DeviceInfo{}
	var order []string
	for _, d := range devices {
		if !d.IsKeyboardLike() {
			continue
		}
		k := groupKey(d.ID)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], d)
	}
	if len(order) == 0 {
		return
	}

	key := order[0]
	streams := map[string]Stream{}
	for _, d := range groups[key] {
		s, err := a.source.Open(d.Path)
		if err != nil {
			continue
		}
		if err := s.Grab(); err != nil {
			s.Close()
			continue
		}
		streams[d.Path] = s
	}
	if len(streams) == 0 {
		return
	}

	a.active = &grabbedGroup{key: key, streams: streams}

	for path, s := range streams {
		go a.readKeyboardStream(ctx, path, s)
	}
}

// readKeyboardStream pumps one grabbed stream's raw events into keyOut,
// translating EV_KEY into events.KeyEvent, until it closes.
func (a *Adapter) readKeyboardStream(ctx context.Context, path string, s Stream) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.Events():
			if !ok {
				a.handleStreamGone(path)
				return
			}
			if ev.Type != EvKey {
				continue
			}
			phase, ok := keyPhase(ev.Value)
			if !ok {
				continue
			}
			out := events.KeyEvent{Key: events.KeyCode(ev.Code), Phase: phase}
			select {
			case a.keyOut <- out:
			case <-ctx.Done():
				return
			}
		}
	}
}

func keyPhase(value int32) (events.Phase, bool) {
	switch value {
	case 0:
		return events.Released, true
	case 1:
		return events.Pressed, true
	case 2:
		return events.Repeated, true
	default:
		return 0, false
	}
}

// handleStreamGone drops one sub-device from the active group; once every
// sub-device is gone the whole group is released and a
// KeyboardDisconnect event fires so the dispatcher can reset the
// keystream pipeline's modifier/compose state (spec.md §7).
func (a *Adapter) handleStreamGone(path string) {
	if a.active == nil {
		return
	}
	if s, ok := a.active.streams[path]; ok {
		s.Close()
		delete(a.active.streams, path)
	}
	if len(a.active.streams) > 0 {
		return
	}
	name := a.active.key
	a.active = nil
	select {
	case a.busOut <- events.KeyboardDisconnect{DeviceName: name}:
	default:
	}
}

func (a *Adapter) releaseActive() {
	if a.active == nil {
		return
	}
	for _, s := range a.active.streams {
		s.Close()
	}
	a.active = nil
}

// SyncLEDs writes capslock/compose LED state to every grabbed stream that
// implements LEDCapable, a no-op when nothing is grabbed or the platform
// exposes no LED control (e.g. the gio host backend).
func (a *Adapter) SyncLEDs(capsLockOn, composeOn bool) error {
	if a.active == nil {
		return nil
	}
	for _, s := range a.active.streams {
		if led, ok := s.(LEDCapable); ok {
			if err := led.SyncLEDs(capsLockOn, composeOn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Adapter) touchscreenLoop(ctx context.Context) {
	stream, err := a.source.Open(a.cfg.TouchscreenPath)
	if err != nil {
		return
	}
	defer stream.Close()

	assembler := NewFrameAssembler(a.cfg.Protocol)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-stream.Events():
			if !ok {
				return
			}
			report, complete := assembler.Feed(ev)
			if !complete {
				continue
			}
			for i := range report.Touches {
				report.Touches[i] = TouchTransform(a.rotation, a.screenSize, report.Touches[i])
			}
			select {
			case a.touchOut <- report:
			case <-ctx.Done():
				return
			}
		}
	}
}
