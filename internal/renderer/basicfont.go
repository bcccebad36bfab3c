package renderer

import (
	"image"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tabula/internal/events"
)

// BasicFontRenderer renders plain monospace text with golang.org/x/image's
// fixed-width face, word-wrapped at wrapWidth. It ignores FontSpec.Family
// and PixelSize: every string is drawn with the one bundled Face7x13,
// standing in for the Pango text renderer the appliance uses on-device
// (spec.md §1 lists that renderer itself out of scope for the core).
type BasicFontRenderer struct{}

func NewBasicFontRenderer() *BasicFontRenderer { return &BasicFontRenderer{} }

func (BasicFontRenderer) Render(markup string, spec FontSpec, wrapWidth int) (Rendered, error) {
	face := faceForSize(spec.PixelSize)
	text := stripMarkup(markup)
	lines := wrapLines(text, face, wrapWidth)

	lineHeight := face.Metrics().Height.Ceil()
	height := lineHeight * len(lines)
	if height == 0 {
		return Rendered{}, nil
	}

	img := image.NewGray(image.Rect(0, 0, wrapWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(image.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(image.Black), Face: face}
	for i, line := range lines {
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(0),
			Y: fixed.I((i + 1) * lineHeight),
		}
		drawer.DrawString(line)
	}

	return Rendered{Pixels: img.Pix, Size: events.Size{W: wrapWidth, H: height}}, nil
}

// faceForSize always returns the one bundled face: x/image only ships
// Face7x13, so PixelSize has no effect yet. The seam stays named for when
// a shaped-font implementation replaces this renderer.
func faceForSize(pixelSize int) font.Face {
	return basicfont.Face7x13
}

// wrapLines breaks text into lines no wider than wrapWidth, breaking on
// whitespace; a single word wider than wrapWidth is placed on its own
// line unbroken.
func wrapLines(text string, face font.Face, wrapWidth int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, face, wrapWidth)...)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func wrapParagraph(text string, face font.Face, wrapWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	for _, w := range words {
		candidate := w
		if cur.Len() > 0 {
			candidate = cur.String() + " " + w
		}
		if textWidth(candidate, face) > wrapWidth && cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			continue
		}
		cur.Reset()
		cur.WriteString(candidate)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func textWidth(s string, face font.Face) int {
	return font.MeasureString(face, s).Ceil()
}
