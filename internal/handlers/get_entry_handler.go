package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	getentrymodels "io.winapps.traveljournal/internal/models/get_entry"
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

// GetEntry handles fetching a specific journal entry with its display images
func (h *EntryHandler) GetEntry(c *gin.Context) {
	var req getentrymodels.GetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Entry ID is required"})
		return
	}

	view := h.entryView(c)
	if err := view.Load(c.Request.Context(), req.EntryID); err != nil {
		h.HandleServiceError(c, err, "Failed to fetch entry", "entry_id", req.EntryID)
		return
	}

	c.JSON(http.StatusOK, getentrymodels.GetEntryResponse{
		Entry:   listmodels.NewEntryResult(view.Entry()),
		Images:  view.Images(),
		CanEdit: view.CanEdit(),
	})
}
