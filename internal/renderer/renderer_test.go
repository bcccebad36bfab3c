package renderer

import "testing"

func TestStripMarkupRemovesTagsAndDecodesEntities(t *testing.T) {
	got := stripMarkup("<b>draft</b> &amp; revise &lt;today&gt;")
	want := "draft & revise <today>"
	if got != want {
		t.Fatalf("stripMarkup() = %q, want %q", got, want)
	}
}

func TestStripMarkupWithNoTagsIsUnchanged(t *testing.T) {
	got := stripMarkup("plain text")
	if got != "plain text" {
		t.Fatalf("stripMarkup() = %q, want unchanged", got)
	}
}

func TestBasicFontRendererProducesNonEmptyPixelsForText(t *testing.T) {
	r := NewBasicFontRenderer()
	out, err := r.Render("hello world", FontSpec{Family: "Courier Prime", PixelSize: 16}, 100)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Size.H == 0 || out.Size.W != 100 {
		t.Fatalf("Render() size = %+v, want W=100 and H>0", out.Size)
	}
	if len(out.Pixels) != out.Size.W*out.Size.H {
		t.Fatalf("len(Pixels) = %d, want %d", len(out.Pixels), out.Size.W*out.Size.H)
	}
}

func TestBasicFontRendererWrapsLongTextToMultipleLines(t *testing.T) {
	r := NewBasicFontRenderer()
	short, err := r.Render("one", FontSpec{PixelSize: 16}, 400)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	long, err := r.Render("one two three four five six seven eight nine ten eleven twelve", FontSpec{PixelSize: 16}, 80)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if long.Size.H <= short.Size.H {
		t.Fatalf("wrapped text height %d should exceed single-line height %d", long.Size.H, short.Size.H)
	}
}

func TestBasicFontRendererEmptyMarkupProducesOneBlankLine(t *testing.T) {
	r := NewBasicFontRenderer()
	out, err := r.Render("", FontSpec{PixelSize: 16}, 100)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Size.H == 0 {
		t.Fatalf("Render(\"\") height = 0, want a single blank line's height")
	}
	if len(out.Pixels) != out.Size.W*out.Size.H {
		t.Fatalf("len(Pixels) = %d, want %d", len(out.Pixels), out.Size.W*out.Size.H)
	}
}
