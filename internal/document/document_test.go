package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDocument() *Document {
	return New(Session{ID: "sess-1"})
}

func assertContiguousIndices(t *testing.T, d *Document) {
	t.Helper()
	for i, p := range d.Paragraphs() {
		require.Equal(t, i, p.Index)
	}
}

func TestKeystrokeBackspaceNewParagraphContiguous(t *testing.T) {
	d := newTestDocument()
	for _, r := range "hello" {
		require.NoError(t, d.Keystroke(r))
	}
	require.NoError(t, d.Backspace())
	require.NoError(t, d.NewParagraph())
	for _, r := range "world" {
		require.NoError(t, d.Keystroke(r))
	}
	assertContiguousIndices(t, d)
	require.Equal(t, "hell", d.Paragraphs()[0].Markdown)
	require.Equal(t, "world", d.Paragraphs()[1].Markdown)
}

func TestBackspaceOnEmptyIsNoop(t *testing.T) {
	d := newTestDocument()
	require.False(t, d.Dirty())
	require.NoError(t, d.Backspace())
	require.Equal(t, "", d.Current().Markdown)
	require.False(t, d.Dirty())
}

func TestNewParagraphTwiceAllocatesAtMostOne(t *testing.T) {
	d := newTestDocument()
	require.NoError(t, d.Keystroke('x'))
	require.NoError(t, d.NewParagraph())
	require.NoError(t, d.NewParagraph())
	require.Len(t, d.Paragraphs(), 2)
}

func TestWordCountInvariantUnderAddThenBackspace(t *testing.T) {
	d := newTestDocument()
	require.NoError(t, d.Keystroke('h'))
	require.NoError(t, d.Keystroke('i'))
	before := CountWordsAll(d.Paragraphs())
	require.NoError(t, d.Keystroke('x'))
	require.NoError(t, d.Backspace())
	after := CountWordsAll(d.Paragraphs())
	require.Equal(t, before, after)
}

func TestSprintLifecycle(t *testing.T) {
	d := newTestDocument()
	require.NoError(t, d.Keystroke('a'))

	sprint, err := d.BeginSprint(25 * time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, sprint.ID)

	require.NoError(t, d.Keystroke('b'))
	require.NoError(t, d.Keystroke('c'))

	ended, err := d.EndSprint()
	require.NoError(t, err)
	require.Equal(t, sprint.ID, ended.ID)
	require.False(t, ended.EndedAt.IsZero())

	assertContiguousIndices(t, d)

	paragraphs := d.Paragraphs()
	require.True(t, IsComment(paragraphs[1].Markdown))
	require.True(t, IsComment(paragraphs[3].Markdown))
	require.Equal(t, "", paragraphs[4].Markdown)
}

func TestCommentParagraphsExcludedFromWordCount(t *testing.T) {
	paragraphs := []Paragraph{
		{Markdown: "# a header comment"},
		{Markdown: "hello world"},
	}
	require.Equal(t, 2, CountWordsAll(paragraphs))
}
