package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	listmodels "io.winapps.traveljournal/internal/models/list_entries"
	removephotomodels "io.winapps.traveljournal/internal/models/remove_photo"
)

// RemovePhoto removes an image from an entry's gallery. Removing the cover
// leaves the entry without one.
func (h *EntryHandler) RemovePhoto(c *gin.Context) {
	var req removephotomodels.RemovePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Entry ID and image URL are required"})
		return
	}

	view := h.entryView(c)
	ctx := c.Request.Context()
	if err := view.Load(ctx, req.EntryID); err != nil {
		h.HandleServiceError(c, err, "Failed to fetch entry", "entry_id", req.EntryID)
		return
	}
	if err := view.RemovePhoto(ctx, req.ImageURL); err != nil {
		h.HandleServiceError(c, err, "Failed to remove photo", "entry_id", req.EntryID)
		return
	}

	c.JSON(http.StatusOK, removephotomodels.RemovePhotoResponse{
		Entry:  listmodels.NewEntryResult(view.Entry()),
		Images: view.Images(),
	})
}
