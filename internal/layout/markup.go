package layout

import "strings"

// toMarkup adapts a paragraph's Markdown to the inline markup subset
// spec.md §6 names (<b>, <i>, <span>, <tt>, <small>, entities). This is a
// narrow stand-in for the Markdown-to-Pango-markup conversion spec.md §1
// lists out of scope for the core; it only needs to carry the Non-goals'
// "inline bold/italic" rule through to the renderer.
func toMarkup(markdown string) string {
	escaped := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(markdown)
	escaped = wrapRuns(escaped, "**", "b")
	escaped = wrapRuns(escaped, "*", "i")
	return escaped
}

// wrapRuns replaces paired occurrences of delim with <tag>...</tag>. An
// unpaired trailing delim is left as literal text.
func wrapRuns(s, delim, tag string) string {
	var b strings.Builder
	open := false
	for {
		idx := strings.Index(s, delim)
		if idx < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:idx])
		if open {
			b.WriteString("</" + tag + ">")
		} else {
			b.WriteString("<" + tag + ">")
		}
		open = !open
		s = s[idx+len(delim):]
	}
	if open {
		// Unpaired marker: treat the opening tag we just wrote as literal
		// text instead, since there was nothing to close it.
		out := b.String()
		i := strings.LastIndex(out, "<"+tag+">")
		return out[:i] + delim + out[i+len(tag)+2:]
	}
	return b.String()
}

// cursorSuffix is appended to the markup of the last (cursor) paragraph,
// distinct enough from ordinary content that it never collides with a
// plain paragraph's cache key (spec.md §4.5).
const cursorSuffix = "<span weight='light'>|</span>"

func cacheKey(markdown string, isCursor bool) string {
	if isCursor {
		return markdown + "\x00cursor"
	}
	return markdown
}

func renderMarkup(markdown string, isCursor bool) string {
	m := toMarkup(markdown)
	if isCursor {
		return m + cursorSuffix
	}
	return m
}
