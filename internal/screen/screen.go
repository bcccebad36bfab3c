package screen

import (
	"context"
	"sync"
	"time"

	"tabula/internal/display"
	"tabula/internal/events"
)

// DefaultAutosaveInterval is the fallback autosave cadence (spec.md §4.6:
// "every N seconds (default 5)").
const DefaultAutosaveInterval = 5 * time.Second

// Screen implements one state of the application. Run blocks, reading
// in until it has a Verb to return; only the top-of-stack screen ever
// receives events (spec.md §4.6). A Screen that panics crashes the
// application (spec.md §7); Run is never recovered by the dispatcher.
type Screen interface {
	Run(ctx context.Context, in <-chan events.Event) Verb
}

// DirtySaver is implemented by screens holding a document the autosave
// ticker should save when dirty. Screens that don't hold a document
// (menus, dialogs) don't implement it and are skipped.
type DirtySaver interface {
	SaveIfDirty(ctx context.Context) error
}

// MergeEvents fans the three pipeline outputs (keystream, gesturestream,
// device bus) into the single ordered channel screens read from. Ordering
// across sources follows producer timing only, per spec.md §5.
func MergeEvents(keys <-chan events.AnnotatedKeyEvent, taps <-chan events.TapEvent, bus <-chan events.Event) <-chan events.Event {
	out := make(chan events.Event, 8)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for k := range keys {
			out <- k
		}
	}()
	go func() {
		defer wg.Done()
		for t := range taps {
			out <- t
		}
	}()
	go func() {
		defer wg.Done()
		for b := range bus {
			out <- b
		}
	}()
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// RunDialog implements the modal dialog pattern (spec.md §4.6): save the
// current screen image, run dlg exclusively against in until it returns
// Close, then restore the saved image. The calling screen's own Run stays
// suspended on this call for the dialog's lifetime, which is the Go
// equivalent of "awaiting the dialog's result future": only dlg reads in
// while this call is in flight, so it is effectively the sole top of
// stack.
func RunDialog(ctx context.Context, disp *display.Display, in <-chan events.Event, dlg Screen) {
	disp.SaveScreen()
	defer disp.RestoreScreen()
	dlg.Run(ctx, in)
}

// Dispatcher runs the screen stack's dispatch loop (spec.md §4.6): wait
// for a nonempty stack, run the top screen, interpret its verb, repeat.
type Dispatcher struct {
	events           <-chan events.Event
	display          *display.Display
	stack            []Screen
	autosaveInterval time.Duration
	onShutdown       func(ctx context.Context) error
}

// NewDispatcher creates a Dispatcher with no screens pushed yet; call
// Push before Run.
func NewDispatcher(evs <-chan events.Event, disp *display.Display, autosaveInterval time.Duration, onShutdown func(context.Context) error) *Dispatcher {
	if autosaveInterval <= 0 {
		autosaveInterval = DefaultAutosaveInterval
	}
	return &Dispatcher{events: evs, display: disp, autosaveInterval: autosaveInterval, onShutdown: onShutdown}
}

// Push sets the initial (bottom) screen.
func (d *Dispatcher) Push(s Screen) {
	d.stack = append(d.stack, s)
}

// Run drives the dispatch loop until the stack empties (Shutdown) or ctx
// is canceled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.autosaveInterval)
	defer ticker.Stop()

	for len(d.stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		top := d.stack[len(d.stack)-1]
		verb := d.runTop(ctx, top, ticker.C)

		switch v := verb.(type) {
		case ChangeScreen:
			d.applyChangeScreen(v)
		case Close:
			if len(d.stack) > 0 {
				d.stack = d.stack[:len(d.stack)-1]
			}
			if len(d.stack) > 0 {
				_ = d.display.RestoreScreen()
			}
		case Shutdown:
			if d.onShutdown != nil {
				if err := d.onShutdown(ctx); err != nil {
					return err
				}
			}
			_ = d.display.Clear()
			d.stack = nil
		}
	}
	return nil
}

func (d *Dispatcher) runTop(ctx context.Context, top Screen, tick <-chan time.Time) Verb {
	verbCh := make(chan Verb, 1)
	go func() { verbCh <- top.Run(ctx, d.events) }()

	for {
		select {
		case v := <-verbCh:
			return v
		case <-tick:
			if saver, ok := top.(DirtySaver); ok {
				_ = saver.SaveIfDirty(ctx)
			}
		}
	}
}

func (d *Dispatcher) applyChangeScreen(v ChangeScreen) {
	switch v.Behavior {
	case ReplaceAll:
		d.stack = []Screen{v.Next}
	case ReplaceLast:
		if len(d.stack) == 0 {
			d.stack = []Screen{v.Next}
			return
		}
		d.stack[len(d.stack)-1] = v.Next
	case Append:
		d.display.SaveScreen()
		d.stack = append(d.stack, v.Next)
	}
}
