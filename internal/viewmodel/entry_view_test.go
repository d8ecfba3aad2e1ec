package viewmodel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"io.winapps.traveljournal/internal/entries"
	"io.winapps.traveljournal/internal/entries/entriestest"
	"io.winapps.traveljournal/internal/gallery"
	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/storage/storagetest"
	"io.winapps.traveljournal/internal/upload"
)

func newEntryView(store *entriestest.Store, userID string) *EntryView {
	client := entries.NewClient(store, userID, time.Second)
	orchestrator := upload.NewOrchestrator(storagetest.NewMemory(), nil, upload.Options{}, zap.NewNop().Sugar(), nil)
	return NewEntryView(client, gallery.NewEditor(orchestrator, client))
}

func TestEntryViewOwnership(t *testing.T) {
	store := entriestest.NewStore()
	store.Put(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Alps", CoverImage: lo.ToPtr("X"), Gallery: []string{"Y", "X", "Z"}})
	ctx := context.Background()

	owner := newEntryView(store, "user-1")
	require.NoError(t, owner.Load(ctx, "e1"))
	assert.True(t, owner.CanEdit())
	assert.Equal(t, []string{"X", "Y", "Z"}, owner.Images())

	visitor := newEntryView(store, "user-2")
	require.NoError(t, visitor.Load(ctx, "e1"))
	assert.False(t, visitor.CanEdit())

	anonymous := newEntryView(store, "")
	require.NoError(t, anonymous.Load(ctx, "e1"))
	assert.False(t, anonymous.CanEdit())
}

func TestEntryViewMutationsReload(t *testing.T) {
	store := entriestest.NewStore()
	store.Put(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Alps", CoverImage: lo.ToPtr("X"), Gallery: []string{"X", "Y"}})
	ctx := context.Background()
	view := newEntryView(store, "user-1")
	require.NoError(t, view.Load(ctx, "e1"))

	require.NoError(t, view.RemovePhoto(ctx, "X"))
	assert.Nil(t, view.Entry().CoverImage)
	assert.Equal(t, []string{"Y"}, view.Images())
	cover, ok := view.Cover()
	assert.True(t, ok)
	assert.Equal(t, "Y", cover)

	require.NoError(t, view.Update(ctx, journal.Patch{Title: lo.ToPtr("Dolomites")}))
	assert.Equal(t, "Dolomites", view.Entry().Title)

	res, err := view.AddPhotos(ctx, []upload.File{photo("n.jpg")})
	require.NoError(t, err)
	assert.Equal(t, append([]string{"Y"}, res.Gallery...), view.Entry().Gallery)

	require.NoError(t, view.Delete(ctx))
	assert.False(t, view.CanEdit())
	assert.Empty(t, view.Entry().ID)
	assert.True(t, errors.Is(view.Load(ctx, "e1"), journal.ErrNotFound))
}
