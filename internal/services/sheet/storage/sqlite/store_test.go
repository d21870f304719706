package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "sheet.db"),
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func sampleProjection(id string) storage.Projection {
	return storage.Projection{
		ActorID:      id,
		Name:         "Sister Vey",
		Kind:         "character",
		RulesVersion: "1.0.0",
		Fingerprint:  "abc",
		Derived:      []byte(`{"actorId":"` + id + `"}`),
		Bindings:     map[string]float64{"WS": 38, "WSB": 3, "hordeDmg": 2.5},
	}
}

func TestPutAndGetProjection(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.PutProjection(ctx, sampleProjection("a1")))
	got, err := store.GetProjection(ctx, "a1")
	require.NoError(t, err)

	want := sampleProjection("a1")
	want.UpdatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, want, got)
}

func TestPutProjectionReplacesBindings(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.PutProjection(ctx, sampleProjection("a1")))
	updated := sampleProjection("a1")
	updated.Name = "Canoness Vey"
	updated.Bindings = map[string]float64{"WS": 45}
	updated.UpdatedAt = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.PutProjection(ctx, updated))

	got, err := store.GetProjection(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, "Canoness Vey", got.Name)
	require.Equal(t, map[string]float64{"WS": 45}, got.Bindings)
	require.Equal(t, updated.UpdatedAt, got.UpdatedAt)
}

func TestGetProjectionNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetProjection(context.Background(), "missing")
	require.True(t, errors.Is(err, storage.ErrNotFound))
	require.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestListProjectionsOrdered(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.PutProjection(ctx, sampleProjection("b")))
	require.NoError(t, store.PutProjection(ctx, sampleProjection("a")))

	got, err := store.ListProjections(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a", got[0].ActorID)
	require.Equal(t, "b", got[1].ActorID)
	require.Equal(t, 38.0, got[1].Bindings["WS"])
}

func TestDeleteProjection(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.PutProjection(ctx, sampleProjection("a1")))

	require.NoError(t, store.DeleteProjection(ctx, "a1"))
	_, err := store.GetProjection(ctx, "a1")
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, store.DeleteProjection(ctx, "a1"), storage.ErrNotFound)

	var count int
	require.NoError(t, store.sqlDB.QueryRow("SELECT COUNT(*) FROM derived_bindings").Scan(&count))
	require.Zero(t, count)
}

func TestPutProjectionRequiresActorID(t *testing.T) {
	store := openTestStore(t)
	err := store.PutProjection(context.Background(), storage.Projection{})
	require.Equal(t, apperrors.CodeActorEmptyID, apperrors.CodeOf(err))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), " ")
	require.Equal(t, apperrors.CodeStorageFailed, apperrors.CodeOf(err))
}

func TestOpenInMemory(t *testing.T) {
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.PutProjection(context.Background(), sampleProjection("a1")))
	_, err = store.GetProjection(context.Background(), "a1")
	require.NoError(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sheet.db")
	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.PutProjection(ctx, sampleProjection("a1")))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()
	_, err = reopened.GetProjection(ctx, "a1")
	require.NoError(t, err)
}

func TestCloseNilSafe(t *testing.T) {
	var store *Store
	require.NoError(t, store.Close())
}
