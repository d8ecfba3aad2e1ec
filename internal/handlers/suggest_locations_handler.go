package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	suggestmodels "io.winapps.traveljournal/internal/models/suggest_locations"
	"io.winapps.traveljournal/internal/viewmodel"
)

// suggestionBoxTTL is how long an idle client's request numbering is kept.
const suggestionBoxTTL = 10 * time.Minute

type LocationHandler struct {
	suggester viewmodel.Suggester
	boxes     *cache.Cache
	logger    *zap.SugaredLogger
}

func NewLocationHandler(suggester viewmodel.Suggester, logger *zap.SugaredLogger) *LocationHandler {
	return &LocationHandler{
		suggester: suggester,
		boxes:     cache.New(suggestionBoxTTL, 2*suggestionBoxTTL),
		logger:    logger,
	}
}

// box returns the suggestion box of the calling user, or of the client
// address for visitors.
func (h *LocationHandler) box(c *gin.Context) *viewmodel.SuggestionBox {
	key := "ip:" + c.ClientIP()
	if uid := currentUID(c); uid != "" {
		key = "uid:" + uid
	}
	_ = h.boxes.Add(key, viewmodel.NewSuggestionBox(h.suggester), cache.DefaultExpiration)
	v, ok := h.boxes.Get(key)
	if !ok {
		return viewmodel.NewSuggestionBox(h.suggester)
	}
	h.boxes.SetDefault(key, v)
	return v.(*viewmodel.SuggestionBox)
}

// SuggestLocations returns up to five place names for q. A failed lookup is
// an empty list, never an error. seq is echoed so the page can drop replies
// to older keystrokes; a reply that finishes after a newer request from the
// same client comes back empty and marked stale.
func (h *LocationHandler) SuggestLocations(c *gin.Context) {
	var req suggestmodels.SuggestLocationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}

	suggestions, seq, ok := h.box(c).Lookup(c.Request.Context(), req.Query, req.Seq)
	logWithContext(h.logger, c, "debug", "Location suggestions", "query", req.Query, "seq", seq, "results", len(suggestions), "stale", !ok)

	c.JSON(http.StatusOK, suggestmodels.SuggestLocationsResponse{
		Seq:         seq,
		Suggestions: suggestions,
		Stale:       !ok,
	})
}
