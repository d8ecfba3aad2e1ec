package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	journal "io.winapps.traveljournal/internal/models/journal"
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
	"io.winapps.traveljournal/internal/viewmodel"
)

// ListEntries returns the signed-in user's entries, newest first, filtered by searchQuery
func (h *EntryHandler) ListEntries(c *gin.Context) {
	h.listScope(c, journal.ScopeMine)
}

// ExploreEntries returns every user's entries and needs no sign-in
func (h *EntryHandler) ExploreEntries(c *gin.Context) {
	h.listScope(c, journal.ScopeAll)
}

func (h *EntryHandler) listScope(c *gin.Context, scope journal.Scope) {
	var req listmodels.ListEntriesRequest
	// An empty body lists everything
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	view := h.journalView(c, scope)
	if err := view.Refresh(c.Request.Context()); err != nil {
		h.HandleServiceError(c, err, "Failed to list entries", "scope", scope)
		return
	}
	view.SetSearchTerm(req.SearchQuery)

	c.JSON(http.StatusOK, listResponse(view))
}

func listResponse(view *viewmodel.JournalView) listmodels.ListEntriesResponse {
	visible := view.Visible()
	return listmodels.ListEntriesResponse{
		Entries:     listmodels.NewEntryResults(visible),
		Total:       len(view.Entries()),
		SearchQuery: view.Term(),
		Notice:      view.Notice(),
	}
}
