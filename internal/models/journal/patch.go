package models

// Patch replaces the supplied fields of a stored entry. Nil fields are left
// untouched. ClearCover takes precedence over CoverImage.
type Patch struct {
	Title       *string
	Location    *string
	Description *string
	CoverImage  *string
	ClearCover  bool
	Gallery     *[]string
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Location == nil && p.Description == nil &&
		p.CoverImage == nil && !p.ClearCover && p.Gallery == nil
}

// Apply merges p into a copy of e.
func (p Patch) Apply(e Entry) Entry {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	switch {
	case p.ClearCover:
		e.CoverImage = nil
	case p.CoverImage != nil:
		cover := *p.CoverImage
		e.CoverImage = &cover
	}
	if p.Gallery != nil {
		e.Gallery = append([]string(nil), (*p.Gallery)...)
	}
	return e
}
