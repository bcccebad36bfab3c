// Package layout implements the layout manager (Component F, spec.md
// §4.5): reverse bottom-up paragraph stacking with the cursor line pinned
// at screen_height/2, a render cache keyed by exact markup string, and a
// damage-diffing-aware update policy.
package layout

import (
	"tabula/internal/document"
	"tabula/internal/events"
	"tabula/internal/renderer"
)

// Result is what one Render pass produces: the composed pixels and the
// rectangle they belong at. When only the tail paragraph changed and its
// height didn't, rect covers just that paragraph; otherwise it covers the
// full above-cursor region.
type Result struct {
	Rect   events.Rect
	Pixels []byte
}

type cacheEntry struct {
	rendered renderer.Rendered
}

// Manager lays out a document's tail against a fixed screen geometry.
// It is owned by one drafting screen and accessed only from the event
// loop (spec.md §5), so it carries no locking.
type Manager struct {
	render      renderer.Renderer
	font        renderer.FontSpec
	screenSize  events.Size
	lineSkip    int

	cache map[string]cacheEntry

	prevKeys    []string // bottom-up order from the previous pass
	prevHeights []int
	prevOrigin  events.Point
}

// New creates a Manager that lays out against the given screen size using
// render and font, with lineSkip as the inter-paragraph gap (spec.md
// §4.5: "subtracting an inter-paragraph skip equal to the font's line
// height").
func New(render renderer.Renderer, font renderer.FontSpec, screenSize events.Size, lineSkip int) *Manager {
	return &Manager{
		render:     render,
		font:       font,
		screenSize: screenSize,
		lineSkip:   lineSkip,
		cache:      map[string]cacheEntry{},
	}
}

// Render lays out doc's paragraphs from the cursor paragraph upward,
// clipping the first paragraph that doesn't fully fit, and returns either
// a partial or full update per the §4.5 update policy.
func (m *Manager) Render(doc *document.Document) (Result, error) {
	paragraphs := doc.Paragraphs()
	cursorY := m.screenSize.H / 2

	type placed struct {
		key    string
		img    renderer.Rendered
		top    int
	}
	var stack []placed
	used := map[string]cacheEntry{}

	bottom := cursorY
	for i := len(paragraphs) - 1; i >= 0 && bottom > 0; i-- {
		isCursor := i == len(paragraphs)-1
		markdown := paragraphs[i].Markdown
		key := cacheKey(markdown, isCursor)

		entry, ok := m.cache[key]
		if !ok {
			rendered, err := m.render.Render(renderMarkup(markdown, isCursor), m.font, m.screenSize.W)
			if err != nil {
				return Result{}, err
			}
			entry = cacheEntry{rendered: rendered}
		}
		used[key] = entry

		top := bottom - entry.rendered.Size.H
		if top < 0 {
			clipped := clipTop(entry.rendered, -top)
			stack = append(stack, placed{key: key, img: clipped, top: 0})
			break
		}
		stack = append(stack, placed{key: key, img: entry.rendered, top: top})
		bottom = top - m.lineSkip
	}

	m.cache = used

	// stack was built bottom-up; reverse for top-down composition.
	for l, r := 0, len(stack)-1; l < r; l, r = l+1, r-1 {
		stack[l], stack[r] = stack[r], stack[l]
	}

	origin := events.Point{X: 0, Y: 0}
	if len(stack) > 0 {
		origin.Y = stack[0].top
	}
	height := cursorY - origin.Y
	if height <= 0 {
		return Result{}, nil
	}

	composite := make([]byte, m.screenSize.W*height)
	for i := range composite {
		composite[i] = 0xFF
	}
	for _, p := range stack {
		rowOffset := p.top - origin.Y
		for row := 0; row < p.img.Size.H; row++ {
			dstRow := rowOffset + row
			if dstRow < 0 || dstRow >= height {
				continue
			}
			copy(composite[dstRow*m.screenSize.W:dstRow*m.screenSize.W+p.img.Size.W],
				p.img.Pixels[row*p.img.Size.W:(row+1)*p.img.Size.W])
		}
	}

	keys := make([]string, len(stack))
	heights := make([]int, len(stack))
	for i, p := range stack {
		keys[i] = p.key
		heights[i] = p.img.Size.H
	}

	result := Result{
		Rect:   events.Rect{X: 0, Y: origin.Y, W: m.screenSize.W, H: height},
		Pixels: composite,
	}

	if onlyTailChanged(m.prevKeys, keys, m.prevHeights, heights) && origin == m.prevOrigin && len(stack) > 0 {
		tail := stack[len(stack)-1]
		tailHeight := tail.img.Size.H
		tailTop := tail.top
		tailOffset := (tailTop - origin.Y) * m.screenSize.W
		tailPixels := append([]byte(nil), composite[tailOffset:tailOffset+tailHeight*m.screenSize.W]...)
		result = Result{
			Rect:   events.Rect{X: 0, Y: tailTop, W: m.screenSize.W, H: tailHeight},
			Pixels: tailPixels,
		}
	}

	m.prevKeys = keys
	m.prevHeights = heights
	m.prevOrigin = origin

	return result, nil
}

// onlyTailChanged reports whether prev and next differ only in their last
// element's key, with every element's height (including the last)
// unchanged: the condition under which spec.md §4.5 allows a partial
// repaint.
func onlyTailChanged(prevKeys, nextKeys []string, prevHeights, nextHeights []int) bool {
	if len(prevKeys) == 0 || len(prevKeys) != len(nextKeys) {
		return false
	}
	for i := 0; i < len(prevKeys)-1; i++ {
		if prevKeys[i] != nextKeys[i] || prevHeights[i] != nextHeights[i] {
			return false
		}
	}
	last := len(prevKeys) - 1
	if prevHeights[last] != nextHeights[last] {
		return false
	}
	return prevKeys[last] != nextKeys[last]
}

func clipTop(r renderer.Rendered, cut int) renderer.Rendered {
	if cut >= r.Size.H {
		return renderer.Rendered{}
	}
	newHeight := r.Size.H - cut
	pixels := append([]byte(nil), r.Pixels[cut*r.Size.W:]...)
	return renderer.Rendered{Pixels: pixels, Size: events.Size{W: r.Size.W, H: newHeight}}
}
