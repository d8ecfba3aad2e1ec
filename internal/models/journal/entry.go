package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Scope selects which entries a listing returns.
type Scope string

const (
	// ScopeMine lists only the signed-in user's entries (dashboard).
	ScopeMine Scope = "mine"
	// ScopeAll lists every user's entries (explore).
	ScopeAll Scope = "all"
)

// Entry is one journal record.
type Entry struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CoverImage  *string   `json:"coverImage"`
	Gallery     []string  `json:"gallery"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Draft holds the user supplied fields of a new entry.
type Draft struct {
	Title       string `json:"title" form:"title"`
	Location    string `json:"location" form:"location"`
	Description string `json:"description" form:"description"`
}

// Validate rejects drafts without a title.
func (d Draft) Validate() error {
	if d.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	return nil
}

// EffectiveCover returns the image shown as primary. An entry without a
// stored cover falls back to its first gallery image.
func EffectiveCover(e Entry) (string, bool) {
	if e.CoverImage != nil && *e.CoverImage != "" {
		return *e.CoverImage, true
	}
	if len(e.Gallery) > 0 {
		return e.Gallery[0], true
	}
	return "", false
}

// DisplayImages returns the cover first followed by every gallery image that
// is not the cover, in gallery order.
func DisplayImages(e Entry) []string {
	images := make([]string, 0, len(e.Gallery)+1)
	if e.CoverImage == nil || *e.CoverImage == "" {
		return append(images, e.Gallery...)
	}
	cover := *e.CoverImage
	images = append(images, cover)
	return append(images, lo.Without(e.Gallery, cover)...)
}

// WithoutPhoto builds the patch that removes url from e. Every occurrence is
// dropped from the gallery and the cover is cleared when it matches; the next
// gallery image is not promoted.
func WithoutPhoto(e Entry, url string) Patch {
	gallery := lo.Without(e.Gallery, url)
	p := Patch{Gallery: &gallery}
	if e.CoverImage != nil && *e.CoverImage == url {
		p.ClearCover = true
	}
	return p
}

// WithPhotos builds the patch that appends urls to e's gallery. The first
// url becomes the cover when e has none.
func WithPhotos(e Entry, urls []string) Patch {
	gallery := make([]string, 0, len(e.Gallery)+len(urls))
	gallery = append(gallery, e.Gallery...)
	gallery = append(gallery, urls...)
	p := Patch{Gallery: &gallery}
	if (e.CoverImage == nil || *e.CoverImage == "") && len(urls) > 0 {
		p.CoverImage = lo.ToPtr(urls[0])
	}
	return p
}

// Matches reports whether term is a case-insensitive substring of the
// entry's title or location. The empty term matches every entry.
func (e Entry) Matches(term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(e.Title), t) ||
		strings.Contains(strings.ToLower(e.Location), t)
}
