// Package viewmodel holds the per-request state behind the dashboard,
// explore and detail pages. Every mutation ends with a refetch of the
// affected data; lists are never patched locally.
package viewmodel

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/upload"
)

const refreshNotice = "Could not load entries. Showing the last loaded list."

// Entries is the session-bound entry client.
type Entries interface {
	UserID() string
	List(ctx context.Context, scope journal.Scope) ([]journal.Entry, error)
	Get(ctx context.Context, id string) (journal.Entry, error)
	Create(ctx context.Context, d journal.Draft, cover *string, gallery []string) (journal.Entry, error)
	Update(ctx context.Context, id string, p journal.Patch) (journal.Entry, error)
	Delete(ctx context.Context, id string) error
}

type Uploader interface {
	UploadBatch(ctx context.Context, ownerID string, files []upload.File) upload.Result
}

// Photos edits the gallery of an existing entry.
type Photos interface {
	AddPhotos(ctx context.Context, entry journal.Entry, files []upload.File) (journal.Entry, upload.Result, error)
	RemovePhoto(ctx context.Context, entry journal.Entry, url string) (journal.Entry, error)
}

// JournalView is the list behind the dashboard (ScopeMine) and explore
// (ScopeAll) pages.
type JournalView struct {
	entries  Entries
	uploader Uploader
	photos   Photos
	scope    journal.Scope

	list   []journal.Entry
	term   string
	notice string
}

// NewJournalView returns an empty view. uploader and photos may be nil for
// read-only scopes.
func NewJournalView(entries Entries, uploader Uploader, photos Photos, scope journal.Scope) *JournalView {
	return &JournalView{
		entries:  entries,
		uploader: uploader,
		photos:   photos,
		scope:    scope,
		list:     []journal.Entry{},
	}
}

func (v *JournalView) Scope() journal.Scope { return v.scope }

// Entries returns the last successfully fetched list.
func (v *JournalView) Entries() []journal.Entry { return v.list }

func (v *JournalView) Term() string { return v.term }

// Notice is a non-fatal message to show above the list, if any.
func (v *JournalView) Notice() string { return v.notice }

// Refresh refetches the scope. On failure the previous list is kept and a
// notice is set; the error is returned for logging.
func (v *JournalView) Refresh(ctx context.Context) error {
	list, err := v.entries.List(ctx, v.scope)
	if err != nil {
		v.notice = refreshNotice
		return err
	}
	v.list = list
	v.notice = ""
	return nil
}

// SetSearchTerm changes the filter without any remote call.
func (v *JournalView) SetSearchTerm(term string) {
	v.term = term
}

// Visible is the fetched list filtered by the search term.
func (v *JournalView) Visible() []journal.Entry {
	return Filter(v.list, v.term)
}

// Filter keeps the entries whose title or location contains term, ignoring
// case, in their original order.
func Filter(entries []journal.Entry, term string) []journal.Entry {
	return lo.Filter(entries, func(e journal.Entry, _ int) bool {
		return e.Matches(term)
	})
}

// Create validates the draft, uploads files and persists the entry.
// Validation failures issue no uploads and no store calls.
func (v *JournalView) Create(ctx context.Context, d journal.Draft, files []upload.File) (journal.Entry, upload.Result, error) {
	if err := d.Validate(); err != nil {
		return journal.Entry{}, upload.Result{}, err
	}

	var res upload.Result
	if len(files) > 0 {
		if v.uploader == nil {
			return journal.Entry{}, res, fmt.Errorf("%w: uploads are not available here", journal.ErrValidation)
		}
		res = v.uploader.UploadBatch(ctx, v.entries.UserID(), files)
	}

	created, err := v.entries.Create(ctx, d, res.Cover, res.Gallery)
	if err != nil {
		return journal.Entry{}, res, err
	}
	v.refreshAfterMutation(ctx)
	return created, res, nil
}

func (v *JournalView) Update(ctx context.Context, id string, p journal.Patch) (journal.Entry, error) {
	updated, err := v.entries.Update(ctx, id, p)
	if err != nil {
		return journal.Entry{}, err
	}
	v.refreshAfterMutation(ctx)
	return updated, nil
}

// Delete removes an entry. Confirmation happens before this is called.
func (v *JournalView) Delete(ctx context.Context, id string) error {
	if err := v.entries.Delete(ctx, id); err != nil {
		return err
	}
	v.refreshAfterMutation(ctx)
	return nil
}

func (v *JournalView) AddPhotos(ctx context.Context, id string, files []upload.File) (journal.Entry, upload.Result, error) {
	if v.photos == nil {
		return journal.Entry{}, upload.Result{}, fmt.Errorf("%w: photo editing is not available here", journal.ErrValidation)
	}
	entry, err := v.entries.Get(ctx, id)
	if err != nil {
		return journal.Entry{}, upload.Result{}, err
	}
	updated, res, err := v.photos.AddPhotos(ctx, entry, files)
	if err != nil {
		return journal.Entry{}, res, err
	}
	v.refreshAfterMutation(ctx)
	return updated, res, nil
}

func (v *JournalView) RemovePhoto(ctx context.Context, id, url string) (journal.Entry, error) {
	if v.photos == nil {
		return journal.Entry{}, fmt.Errorf("%w: photo editing is not available here", journal.ErrValidation)
	}
	entry, err := v.entries.Get(ctx, id)
	if err != nil {
		return journal.Entry{}, err
	}
	updated, err := v.photos.RemovePhoto(ctx, entry, url)
	if err != nil {
		return journal.Entry{}, err
	}
	v.refreshAfterMutation(ctx)
	return updated, nil
}

// A failed refetch after a successful mutation only sets the notice.
func (v *JournalView) refreshAfterMutation(ctx context.Context) {
	_ = v.Refresh(ctx)
}
