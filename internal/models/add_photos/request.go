package models

// AddPhotosRequest is the text part of the multipart form; photos are sent
// as repeated "photos" file fields.
type AddPhotosRequest struct {
	EntryID string `form:"entryId" binding:"required"`
}
