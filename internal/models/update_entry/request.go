package models

// UpdateEntryRequest replaces the supplied text fields; omitted fields stay.
type UpdateEntryRequest struct {
	EntryID     string  `json:"entryId" binding:"required"`
	Title       *string `json:"title,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}
