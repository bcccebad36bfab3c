package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tabula/internal/events"
)

func reportAt(ts time.Time, touches ...events.TouchEvent) events.TouchReport {
	return events.TouchReport{Touches: touches, Timestamp: ts}
}

func TestSimpleTapRecognition(t *testing.T) {
	mp := &makePersistent{}
	rec := newRecognizer()

	base := time.Now()
	var taps []events.TapEvent
	for i := 0; i < 8; i++ {
		ts := base.Add(time.Duration(i) * 15 * time.Millisecond)
		pr := mp.process(reportAt(ts, events.TouchEvent{X: 601, Y: 618, Pressure: 38, Slot: 0}))
		taps = append(taps, rec.process(pr)...)
	}
	liftTS := base.Add(8 * 15 * time.Millisecond)
	pr := mp.process(reportAt(liftTS))
	taps = append(taps, rec.process(pr)...)

	require.Len(t, taps, 2)
	require.Equal(t, events.TapInitiated, taps[0].Phase)
	require.Equal(t, events.Point{X: 601, Y: 618}, taps[0].Location)
	require.Equal(t, events.TapCompleted, taps[1].Phase)
}

func TestSwipeIsNotATap(t *testing.T) {
	mp := &makePersistent{}
	rec := newRecognizer()

	base := time.Now()
	var taps []events.TapEvent
	for i := 0; i < 16; i++ {
		ts := base.Add(time.Duration(i) * (250 / 16) * time.Millisecond)
		x := 100 + i*20 // drifts well beyond MoveThreshold across the sequence
		pr := mp.process(reportAt(ts, events.TouchEvent{X: x, Y: 300, Pressure: 38, Slot: 0}))
		taps = append(taps, rec.process(pr)...)
	}
	liftTS := base.Add(250 * time.Millisecond)
	pr := mp.process(reportAt(liftTS))
	taps = append(taps, rec.process(pr)...)

	require.GreaterOrEqual(t, len(taps), 1)
	require.Equal(t, events.TapInitiated, taps[0].Phase)
	require.Equal(t, events.TapCanceled, taps[len(taps)-1].Phase)
	for _, tap := range taps {
		require.NotEqual(t, events.TapCompleted, tap.Phase)
	}
}

func TestTwoTouchNeverCompletes(t *testing.T) {
	mp := &makePersistent{}
	rec := newRecognizer()

	base := time.Now()
	pr := mp.process(reportAt(base, events.TouchEvent{X: 10, Y: 10, Pressure: 40, Slot: 0}))
	taps := rec.process(pr)

	pr = mp.process(reportAt(base.Add(10*time.Millisecond),
		events.TouchEvent{X: 10, Y: 10, Pressure: 40, Slot: 0},
		events.TouchEvent{X: 200, Y: 200, Pressure: 40, Slot: 1},
	))
	taps = append(taps, rec.process(pr)...)

	pr = mp.process(reportAt(base.Add(20*time.Millisecond)))
	taps = append(taps, rec.process(pr)...)

	for _, tap := range taps {
		require.NotEqual(t, events.TapCompleted, tap.Phase)
	}
}

func TestBelowPressureThresholdNeverTaps(t *testing.T) {
	mp := &makePersistent{}
	rec := newRecognizer()

	base := time.Now()
	var taps []events.TapEvent
	for i := 0; i < 4; i++ {
		ts := base.Add(time.Duration(i) * 15 * time.Millisecond)
		pr := mp.process(reportAt(ts, events.TouchEvent{X: 50, Y: 50, Pressure: 10, Slot: 0}))
		taps = append(taps, rec.process(pr)...)
	}
	pr := mp.process(reportAt(base.Add(4 * 15 * time.Millisecond)))
	taps = append(taps, rec.process(pr)...)

	require.Empty(t, taps)
}
