package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.traveljournal/internal/entries"
	"io.winapps.traveljournal/internal/gallery"
	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/viewmodel"
)

// EntryHandler serves the entry endpoints. A fresh view model is built for
// every request and dropped with the response.
type EntryHandler struct {
	store    entries.Store
	uploader viewmodel.Uploader
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewEntryHandler(store entries.Store, uploader viewmodel.Uploader, timeout time.Duration, logger *zap.SugaredLogger) *EntryHandler {
	return &EntryHandler{
		store:    store,
		uploader: uploader,
		timeout:  timeout,
		logger:   logger,
	}
}

// currentUID is the signed-in user set by the auth middleware, or "".
func currentUID(c *gin.Context) string {
	uid, _ := c.Get("uid")
	s, _ := uid.(string)
	return s
}

func (h *EntryHandler) client(c *gin.Context) *entries.Client {
	return entries.NewClient(h.store, currentUID(c), h.timeout)
}

func (h *EntryHandler) journalView(c *gin.Context, scope journal.Scope) *viewmodel.JournalView {
	client := h.client(c)
	if scope == journal.ScopeAll {
		return viewmodel.NewJournalView(client, nil, nil, scope)
	}
	return viewmodel.NewJournalView(client, h.uploader, gallery.NewEditor(h.uploader, client), scope)
}

func (h *EntryHandler) entryView(c *gin.Context) *viewmodel.EntryView {
	client := h.client(c)
	return viewmodel.NewEntryView(client, gallery.NewEditor(h.uploader, client))
}
