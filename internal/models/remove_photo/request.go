package models

type RemovePhotoRequest struct {
	EntryID  string `json:"entryId" form:"entryId" binding:"required"`
	ImageURL string `json:"imageUrl" form:"imageUrl" binding:"required"`
}
