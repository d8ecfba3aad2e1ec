package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	addphotosmodels "io.winapps.traveljournal/internal/models/add_photos"
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

// AddPhotos uploads more photos to an existing entry
func (h *EntryHandler) AddPhotos(c *gin.Context) {
	var req addphotosmodels.AddPhotosRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Entry ID is required"})
		return
	}

	files, err := formFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo upload"})
		return
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one photo is required"})
		return
	}

	view := h.entryView(c)
	ctx := c.Request.Context()
	if err := view.Load(ctx, req.EntryID); err != nil {
		h.HandleServiceError(c, err, "Failed to fetch entry", "entry_id", req.EntryID)
		return
	}

	res, err := view.AddPhotos(ctx, files)
	if err != nil {
		h.HandleServiceError(c, err, "Failed to add photos", "entry_id", req.EntryID)
		return
	}

	c.JSON(http.StatusOK, addphotosmodels.AddPhotosResponse{
		Entry:         listmodels.NewEntryResult(view.Entry()),
		Added:         res.Gallery,
		FailedUploads: failedUploads(res),
		Images:        view.Images(),
	})
}
