package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	deleteentrymodels "io.winapps.traveljournal/internal/models/delete_entry"
	journal "io.winapps.traveljournal/internal/models/journal"
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

// DeleteEntry handles the deletion of an entry. The client confirms first.
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	var req deleteentrymodels.DeleteEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Entry ID is required"})
		return
	}

	view := h.journalView(c, journal.ScopeMine)
	if err := view.Delete(c.Request.Context(), req.EntryID); err != nil {
		h.HandleServiceError(c, err, "Failed to delete entry", "entry_id", req.EntryID)
		return
	}

	c.JSON(http.StatusOK, deleteentrymodels.DeleteEntryResponse{
		Success: true,
		Message: "Entry deleted successfully",
		Entries: listmodels.NewEntryResults(view.Entries()),
		Notice:  view.Notice(),
	})
}
