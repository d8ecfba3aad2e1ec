package models

// CreateEntryRequest is the text part of the multipart create form. Photos
// are sent as repeated "photos" file fields.
type CreateEntryRequest struct {
	Title       string `form:"title"`
	Location    string `form:"location"`
	Description string `form:"description"`
}
