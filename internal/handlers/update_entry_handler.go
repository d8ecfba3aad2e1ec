package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	journal "io.winapps.traveljournal/internal/models/journal"
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
	updateentrymodels "io.winapps.traveljournal/internal/models/update_entry"
)

// UpdateEntry replaces the title, location or description of an entry
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	var req updateentrymodels.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view := h.journalView(c, journal.ScopeMine)
	updated, err := view.Update(c.Request.Context(), req.EntryID, journal.Patch{
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		h.HandleServiceError(c, err, "Failed to update entry", "entry_id", req.EntryID)
		return
	}

	c.JSON(http.StatusOK, updateentrymodels.UpdateEntryResponse{
		Entry:   listmodels.NewEntryResult(updated),
		Entries: listmodels.NewEntryResults(view.Entries()),
		Notice:  view.Notice(),
	})
}
