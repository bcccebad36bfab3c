package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tabula/internal/document"
	"tabula/internal/events"
	"tabula/internal/renderer"
)

// fixedRenderer renders every string as a single-line block sized
// len(text)*charW x lineH, letting tests assert on layout geometry
// without depending on a real font.
type fixedRenderer struct {
	charW, lineH int
	calls        int
}

func (f *fixedRenderer) Render(markup string, font renderer.FontSpec, wrapWidth int) (renderer.Rendered, error) {
	f.calls++
	w := len(markup) * f.charW
	if w > wrapWidth {
		w = wrapWidth
	}
	pixels := make([]byte, w*f.lineH)
	for i := range pixels {
		pixels[i] = byte(len(markup) % 256)
	}
	return renderer.Rendered{Pixels: pixels, Size: events.Size{W: w, H: f.lineH}}, nil
}

func newTestDoc(paragraphs ...string) *document.Document {
	d := document.New(document.Session{ID: "s1"})
	for i, p := range paragraphs {
		for _, r := range p {
			_ = d.Keystroke(r)
		}
		if i < len(paragraphs)-1 {
			_ = d.NewParagraph()
		}
	}
	return d
}

func TestRenderLaysOutFromCursorUpward(t *testing.T) {
	fr := &fixedRenderer{charW: 2, lineH: 10}
	m := New(fr, renderer.FontSpec{Family: "Courier Prime", PixelSize: 18}, events.Size{W: 100, H: 40}, 2)

	doc := newTestDoc("first", "second")
	result, err := m.Render(doc)
	require.NoError(t, err)
	require.Equal(t, 20, result.Rect.Y+result.Rect.H) // cursor line at H/2 == 20
}

func TestRenderCachesByMarkupAndCursorSuffix(t *testing.T) {
	fr := &fixedRenderer{charW: 2, lineH: 10}
	m := New(fr, renderer.FontSpec{}, events.Size{W: 100, H: 40}, 2)

	doc := newTestDoc("hello")
	_, err := m.Render(doc)
	require.NoError(t, err)
	firstCalls := fr.calls

	_, err = m.Render(doc)
	require.NoError(t, err)
	require.Equal(t, firstCalls, fr.calls, "unchanged document must hit the cache, not re-render")
}

func TestOnlyTailRepaintedWhenHeightUnchanged(t *testing.T) {
	fr := &fixedRenderer{charW: 1, lineH: 10}
	m := New(fr, renderer.FontSpec{}, events.Size{W: 100, H: 40}, 2)

	doc := newTestDoc("fixed paragraph", "a")
	first, err := m.Render(doc)
	require.NoError(t, err)
	require.Equal(t, 0, first.Rect.Y, "first pass always repaints the full region")

	require.NoError(t, doc.Keystroke('b'))
	second, err := m.Render(doc)
	require.NoError(t, err)
	require.Greater(t, second.Rect.Y, 0, "only the tail paragraph's rect should repaint")
}

func TestFullRepaintWhenParagraphCountChanges(t *testing.T) {
	fr := &fixedRenderer{charW: 1, lineH: 10}
	m := New(fr, renderer.FontSpec{}, events.Size{W: 100, H: 40}, 2)

	doc := newTestDoc("first")
	_, err := m.Render(doc)
	require.NoError(t, err)

	require.NoError(t, doc.NewParagraph())
	require.NoError(t, doc.Keystroke('x'))
	result, err := m.Render(doc)
	require.NoError(t, err)
	require.Equal(t, 0, result.Rect.Y, "a new paragraph must trigger a full reflow")
}
