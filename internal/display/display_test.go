package display

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tabula/internal/events"
)

func newTestDisplay() (*Display, *MemorySink) {
	sink := NewMemorySink(ScreenInfo{Size: events.Size{W: 8, H: 8}})
	return New(sink), sink
}

func TestClearPushesFullScreen(t *testing.T) {
	d, sink := newTestDisplay()
	require.NoError(t, d.Clear())
	require.Len(t, sink.Pushes, 1)
	require.Equal(t, events.Rect{X: 0, Y: 0, W: 8, H: 8}, sink.Pushes[0].Rect)
}

func TestBlitPushesOnlyChangedBoundingBox(t *testing.T) {
	d, sink := newTestDisplay()
	require.NoError(t, d.Clear())
	sink.Pushes = nil

	pixels := make([]byte, 4*4)
	for i := range pixels {
		pixels[i] = 0xFF
	}
	pixels[1*4+2] = 0x00 // one dark pixel at local (2,1)
	require.NoError(t, d.Blit(events.Rect{X: 0, Y: 0, W: 4, H: 4}, pixels))

	require.Len(t, sink.Pushes, 1)
	require.Equal(t, events.Rect{X: 2, Y: 1, W: 1, H: 1}, sink.Pushes[0].Rect)
}

func TestBlitWithNoChangeIsNoop(t *testing.T) {
	d, sink := newTestDisplay()
	require.NoError(t, d.Clear())
	sink.Pushes = nil

	pixels := make([]byte, 4*4)
	for i := range pixels {
		pixels[i] = 0xFF
	}
	require.NoError(t, d.Blit(events.Rect{X: 0, Y: 0, W: 4, H: 4}, pixels))
	require.Empty(t, sink.Pushes)
}

func TestSaveAndRestoreScreenRoundtrips(t *testing.T) {
	d, sink := newTestDisplay()
	require.NoError(t, d.Clear())

	pixels := make([]byte, 8*8)
	require.NoError(t, d.Blit(events.Rect{X: 0, Y: 0, W: 8, H: 8}, pixels))
	d.SaveScreen()

	overlay := make([]byte, 8*8)
	for i := range overlay {
		overlay[i] = 0xFF
	}
	require.NoError(t, d.Blit(events.Rect{X: 0, Y: 0, W: 8, H: 8}, overlay))

	require.NoError(t, d.RestoreScreen())
	require.Equal(t, pixels, d.shadow)
}

func TestRestoreScreenWithoutSaveErrors(t *testing.T) {
	d, _ := newTestDisplay()
	require.Error(t, d.RestoreScreen())
}
