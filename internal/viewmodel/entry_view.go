package viewmodel

import (
	"context"

	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/upload"
)

// EntryView backs the detail page of one entry.
type EntryView struct {
	entries Entries
	photos  Photos
	entry   journal.Entry
	loaded  bool
}

func NewEntryView(entries Entries, photos Photos) *EntryView {
	return &EntryView{entries: entries, photos: photos}
}

// Load fetches the entry.
func (v *EntryView) Load(ctx context.Context, id string) error {
	e, err := v.entries.Get(ctx, id)
	if err != nil {
		return err
	}
	v.entry = e
	v.loaded = true
	return nil
}

func (v *EntryView) Entry() journal.Entry { return v.entry }

// CanEdit reports whether the session owns the entry, which decides whether
// the gallery controls are shown.
func (v *EntryView) CanEdit() bool {
	uid := v.entries.UserID()
	return v.loaded && uid != "" && v.entry.OwnerID == uid
}

// Images lists the cover first, then the rest of the gallery without it.
func (v *EntryView) Images() []string {
	return journal.DisplayImages(v.entry)
}

// Cover is the effective cover, if any.
func (v *EntryView) Cover() (string, bool) {
	return journal.EffectiveCover(v.entry)
}

func (v *EntryView) AddPhotos(ctx context.Context, files []upload.File) (upload.Result, error) {
	_, res, err := v.photos.AddPhotos(ctx, v.entry, files)
	if err != nil {
		return res, err
	}
	return res, v.Load(ctx, v.entry.ID)
}

func (v *EntryView) RemovePhoto(ctx context.Context, url string) error {
	if _, err := v.photos.RemovePhoto(ctx, v.entry, url); err != nil {
		return err
	}
	return v.Load(ctx, v.entry.ID)
}

func (v *EntryView) Update(ctx context.Context, p journal.Patch) error {
	if _, err := v.entries.Update(ctx, v.entry.ID, p); err != nil {
		return err
	}
	return v.Load(ctx, v.entry.ID)
}

// Delete removes the entry; the view is empty afterwards.
func (v *EntryView) Delete(ctx context.Context) error {
	if err := v.entries.Delete(ctx, v.entry.ID); err != nil {
		return err
	}
	v.entry = journal.Entry{}
	v.loaded = false
	return nil
}
