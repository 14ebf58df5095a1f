package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"summaryplus/internal/models"
)

func TestGetOrCreateMintsFreshID(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	first, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.Len(t, first.ID, 32)
	require.Empty(t, first.Files)

	second, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestGetOrCreateReusesKnownSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	created, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)

	same, err := store.GetOrCreate(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, same.ID)
}

func TestGetOrCreateUnknownIDMintsNew(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	sess, err := store.GetOrCreate(context.Background(), "deadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)
	require.NotEqual(t, "deadbeefdeadbeefdeadbeefdeadbeef", sess.ID)
}

func TestGetUnknownSession(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddFileAndAppendTurns(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)

	file := &models.StoredFile{ID: "f1", Name: "apuntes.pdf", MIMEType: "application/pdf"}
	require.NoError(t, store.AddFile(ctx, sess.ID, file))
	require.NoError(t, store.AppendTurns(ctx, sess.ID,
		models.ChatTurn{Role: models.RoleUser, Content: "hola"},
		models.ChatTurn{Role: models.RoleAssistant, Content: "hola!"},
	))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"f1"}, got.FileOrder)
	require.Len(t, got.History, 2)
	require.Equal(t, models.RoleUser, got.History[0].Role)
	require.Equal(t, models.RoleAssistant, got.History[1].Role)

	require.ErrorIs(t, store.AddFile(ctx, "missing", file), ErrNotFound)
	require.ErrorIs(t, store.AppendTurns(ctx, "missing", models.ChatTurn{}), ErrNotFound)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)
	require.NoError(t, store.AddFile(ctx, sess.ID, &models.StoredFile{ID: "f1", Name: "a.png"}))

	snap, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	// Mutating the snapshot must not leak back into the store.
	delete(snap.Files, "f1")
	snap.History = append(snap.History, models.ChatTurn{Role: models.RoleUser, Content: "x"})

	fresh, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Contains(t, fresh.Files, "f1")
	require.Empty(t, fresh.History)
}

func TestSessionExpiry(t *testing.T) {
	store := NewMemoryStore(30 * time.Millisecond)
	ctx := context.Background()

	sess, err := store.GetOrCreate(ctx, "")
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	_, err = store.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
