package gallery

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"io.winapps.traveljournal/internal/entries"
	"io.winapps.traveljournal/internal/entries/entriestest"
	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/storage/storagetest"
	"io.winapps.traveljournal/internal/upload"
)

func photo(name string) upload.File {
	return upload.File{
		Name: name,
		Size: 3,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader("img")), nil },
	}
}

type fixture struct {
	store   *entriestest.Store
	objects *storagetest.Memory
	editor  *Editor
}

func newFixture(t *testing.T, userID string) fixture {
	t.Helper()
	store := entriestest.NewStore()
	objects := storagetest.NewMemory()
	orchestrator := upload.NewOrchestrator(objects, nil, upload.Options{}, zap.NewNop().Sugar(), nil)
	client := entries.NewClient(store, userID, time.Second)
	return fixture{store: store, objects: objects, editor: NewEditor(orchestrator, client)}
}

func TestRemoveCoverPhotoDoesNotPromote(t *testing.T) {
	f := newFixture(t, "user-1")
	entry := journal.Entry{
		ID: "e1", OwnerID: "user-1", Title: "Alps",
		CoverImage: lo.ToPtr("u/a.jpg"),
		Gallery:    []string{"u/a.jpg", "u/b.jpg"},
	}
	f.store.Put(entry)

	updated, err := f.editor.RemovePhoto(context.Background(), entry, "u/a.jpg")

	require.NoError(t, err)
	assert.Nil(t, updated.CoverImage)
	assert.Equal(t, []string{"u/b.jpg"}, updated.Gallery)

	cover, ok := journal.EffectiveCover(updated)
	assert.True(t, ok)
	assert.Equal(t, "u/b.jpg", cover, "detail view falls back to the first gallery image")
}

func TestRemovePhotoIsIdempotent(t *testing.T) {
	f := newFixture(t, "user-1")
	entry := journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Alps", Gallery: []string{"u/a.jpg", "u/b.jpg", "u/a.jpg"}}
	f.store.Put(entry)
	ctx := context.Background()

	once, err := f.editor.RemovePhoto(ctx, entry, "u/a.jpg")
	require.NoError(t, err)
	twice, err := f.editor.RemovePhoto(ctx, once, "u/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, []string{"u/b.jpg"}, once.Gallery)
	assert.Equal(t, once.Gallery, twice.Gallery)
	assert.Equal(t, once.CoverImage, twice.CoverImage)
}

func TestAddPhotosSetsCoverWhenAbsent(t *testing.T) {
	f := newFixture(t, "user-1")
	entry := journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Alps", Gallery: []string{"u/old.jpg"}}
	f.store.Put(entry)

	updated, res, err := f.editor.AddPhotos(context.Background(), entry, []upload.File{photo("x.jpg"), photo("y.jpg")})

	require.NoError(t, err)
	require.Len(t, res.Gallery, 2)
	assert.Equal(t, append([]string{"u/old.jpg"}, res.Gallery...), updated.Gallery)
	require.NotNil(t, updated.CoverImage)
	assert.Equal(t, res.Gallery[0], *updated.CoverImage)
}

func TestAddPhotosKeepsExistingCover(t *testing.T) {
	f := newFixture(t, "user-1")
	entry := journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Alps", CoverImage: lo.ToPtr("u/c.jpg"), Gallery: []string{"u/c.jpg"}}
	f.store.Put(entry)

	updated, _, err := f.editor.AddPhotos(context.Background(), entry, []upload.File{photo("x.jpg")})

	require.NoError(t, err)
	assert.Equal(t, "u/c.jpg", *updated.CoverImage)
	assert.Len(t, updated.Gallery, 2)
}

func TestAddPhotosWithoutSuccessSkipsUpdate(t *testing.T) {
	f := newFixture(t, "user-1")
	f.objects.FailOn = func(string) bool { return true }
	entry := journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Alps", Gallery: []string{}}
	f.store.Put(entry)

	updated, res, err := f.editor.AddPhotos(context.Background(), entry, []upload.File{photo("x.jpg")})

	require.NoError(t, err)
	assert.Len(t, res.Failed, 1)
	assert.Equal(t, entry, updated)
	assert.Empty(t, f.store.Updates())
}

func TestEditorRejectsOtherUsersEntries(t *testing.T) {
	f := newFixture(t, "user-2")
	entry := journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Alps", Gallery: []string{"u/a.jpg"}}
	f.store.Put(entry)

	_, _, err := f.editor.AddPhotos(context.Background(), entry, []upload.File{photo("x.jpg")})
	assert.True(t, errors.Is(err, journal.ErrNotFound))
	assert.Empty(t, f.objects.Keys(), "nothing is uploaded for a foreign entry")

	_, err = f.editor.RemovePhoto(context.Background(), entry, "u/a.jpg")
	assert.True(t, errors.Is(err, journal.ErrNotFound))
}
