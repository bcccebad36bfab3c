// Package renderer implements the text renderer external collaborator
// (spec.md §6 "Text renderer": markup-string + font-spec + wrap-width ->
// pixel buffer + pixel size). The Cairo/Pango-equivalent rendering
// primitives are explicitly out of scope for the core (spec.md §1); this
// package is the narrow boundary the layout manager renders through, not
// a full typesetting engine.
package renderer

import (
	"strings"

	"tabula/internal/events"
)

// FontSpec names a drafting font and a size bucket, resolved by the
// caller (internal/config.Settings.Font) against the configured font
// list.
type FontSpec struct {
	Family   string
	PixelSize int
}

// Rendered is one rasterized markup string: tightly packed, row-major
// 8-bit grayscale pixels, and the size they were rendered at.
type Rendered struct {
	Pixels []byte
	Size   events.Size
}

// Renderer rasterizes an inline-markup string (spec.md §6: a subset of
// <b>, <i>, <span>, <tt>, <small>, and entity references) to grayscale
// pixels wrapped at wrapWidth.
type Renderer interface {
	Render(markup string, font FontSpec, wrapWidth int) (Rendered, error)
}

// stripMarkup removes the inline tags and decodes the entity references
// spec.md §6 names, leaving plain text. A full renderer would honor the
// tags' styling; this boundary only needs the text they wrap, since glyph
// rendering itself is out of scope for the core (spec.md §1).
func stripMarkup(markup string) string {
	var b strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return decodeEntities(b.String())
}

var entities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": "\"",
	"&apos;": "'",
}

func decodeEntities(s string) string {
	for from, to := range entities {
		s = strings.ReplaceAll(s, from, to)
	}
	return s
}
