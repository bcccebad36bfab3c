package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tabula/internal/document"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabula.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestNewSessionAndSaveRoundtrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	session, err := st.NewSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	paragraphs := []document.Paragraph{
		{ID: "p0", SessionID: session.ID, Index: 0, Markdown: "hello world"},
		{ID: "p1", SessionID: session.ID, Index: 1, Markdown: "second paragraph"},
	}
	require.NoError(t, st.SaveSession(ctx, session.ID, 4, paragraphs))

	loaded, err := st.LoadSessionParagraphs(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "hello world", loaded[0].Markdown)
	require.Equal(t, "second paragraph", loaded[1].Markdown)
}

func TestSaveSessionUpsertsExistingParagraph(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	session, err := st.NewSession(ctx)
	require.NoError(t, err)

	p := document.Paragraph{ID: "p0", SessionID: session.ID, Index: 0, Markdown: "draft one"}
	require.NoError(t, st.SaveSession(ctx, session.ID, 2, []document.Paragraph{p}))

	p.Markdown = "draft one revised"
	require.NoError(t, st.SaveSession(ctx, session.ID, 3, []document.Paragraph{p}))

	loaded, err := st.LoadSessionParagraphs(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "draft one revised", loaded[0].Markdown)
}

func TestListSessionsOnlyExportable(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	exported, err := st.NewSession(ctx)
	require.NoError(t, err)
	require.NoError(t, st.SaveSession(ctx, exported.ID, 1, nil))
	require.NoError(t, st.SetExportedTime(ctx, exported.ID, time.Now().Add(time.Hour)))

	unexported, err := st.NewSession(ctx)
	require.NoError(t, err)
	require.NoError(t, st.SaveSession(ctx, unexported.ID, 1, nil))

	all, err := st.ListSessions(ctx, 0, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	needExport, err := st.ListSessions(ctx, 0, true)
	require.NoError(t, err)
	require.Len(t, needExport, 1)
	require.Equal(t, unexported.ID, needExport[0].ID)
}

func TestDeleteSessionRemovesParagraphs(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	session, err := st.NewSession(ctx)
	require.NoError(t, err)
	require.NoError(t, st.SaveSession(ctx, session.ID, 1, []document.Paragraph{
		{ID: "p0", SessionID: session.ID, Index: 0, Markdown: "x"},
	}))

	require.NoError(t, st.DeleteSession(ctx, session.ID))

	loaded, err := st.LoadSessionParagraphs(ctx, session.ID)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestUpdateSprint(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	session, err := st.NewSession(ctx)
	require.NoError(t, err)

	sprint, err := st.NewSprint(ctx, session.ID, 10*time.Minute)
	require.NoError(t, err)

	require.NoError(t, st.UpdateSprint(ctx, sprint.ID, 42, nil))
	now := time.Now()
	require.NoError(t, st.UpdateSprint(ctx, sprint.ID, 50, &now))
}

func TestOpenRejectsMismatchedSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabula.db")
	st, err := Open(path)
	require.NoError(t, err)
	_, execErr := st.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, execErr)
	require.NoError(t, st.Close())

	_, err = Open(path)
	require.Error(t, err)
}
