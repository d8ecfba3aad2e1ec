// Package gallery adds and removes photos on an existing entry.
package gallery

import (
	"context"
	"fmt"

	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/upload"
)

type Uploader interface {
	UploadBatch(ctx context.Context, ownerID string, files []upload.File) upload.Result
}

// Updater is the session-bound entry client.
type Updater interface {
	UserID() string
	Update(ctx context.Context, id string, p journal.Patch) (journal.Entry, error)
}

type Editor struct {
	uploader Uploader
	entries  Updater
}

func NewEditor(uploader Uploader, entries Updater) *Editor {
	return &Editor{uploader: uploader, entries: entries}
}

// AddPhotos uploads files and appends every stored URL to the entry's
// gallery in one update. The first new URL becomes the cover when the entry
// has none. When nothing was stored no update is issued and entry is
// returned as is.
func (e *Editor) AddPhotos(ctx context.Context, entry journal.Entry, files []upload.File) (journal.Entry, upload.Result, error) {
	if err := e.checkOwner(entry); err != nil {
		return entry, upload.Result{}, err
	}

	res := e.uploader.UploadBatch(ctx, entry.OwnerID, files)
	if len(res.Gallery) == 0 {
		return entry, res, nil
	}

	updated, err := e.entries.Update(ctx, entry.ID, journal.WithPhotos(entry, res.Gallery))
	if err != nil {
		return entry, res, err
	}
	return updated, res, nil
}

// RemovePhoto drops every occurrence of url from the gallery and clears the
// cover when it is url. Removing an absent url leaves the entry unchanged.
func (e *Editor) RemovePhoto(ctx context.Context, entry journal.Entry, url string) (journal.Entry, error) {
	if url == "" {
		return entry, fmt.Errorf("%w: image url is required", journal.ErrValidation)
	}
	if err := e.checkOwner(entry); err != nil {
		return entry, err
	}
	return e.entries.Update(ctx, entry.ID, journal.WithoutPhoto(entry, url))
}

// Photos are only uploaded for entries the session owns.
func (e *Editor) checkOwner(entry journal.Entry) error {
	if entry.OwnerID == "" || entry.OwnerID != e.entries.UserID() {
		return journal.ErrNotFound
	}
	return nil
}
