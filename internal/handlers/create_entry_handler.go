package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	createmodels "io.winapps.traveljournal/internal/models/create_entry"
	journal "io.winapps.traveljournal/internal/models/journal"
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
	"io.winapps.traveljournal/internal/upload"
)

const photosField = "photos"

// CreateEntry stores the selected photos and creates an entry owned by the
// signed-in user. Photos that fail to upload are skipped and reported.
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req createmodels.CreateEntryRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	files, err := formFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid photo upload"})
		return
	}

	view := h.journalView(c, journal.ScopeMine)
	created, res, err := view.Create(c.Request.Context(), journal.Draft{
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
	}, files)
	if err != nil {
		h.HandleServiceError(c, err, "Failed to create entry", "photos", len(files))
		return
	}

	failed := failedUploads(res)
	if len(failed) > 0 {
		logWithContext(h.logger, c, "warn", "Some photos were not uploaded", "entry_id", created.ID, "failed", len(failed))
	}

	c.JSON(http.StatusCreated, createmodels.CreateEntryResponse{
		Entry:         listmodels.NewEntryResult(created),
		FailedUploads: failed,
		Entries:       listmodels.NewEntryResults(view.Entries()),
		Notice:        view.Notice(),
	})
}

// formFiles returns the photos of a multipart request in selection order.
// Requests that are not multipart carry no photos.
func formFiles(c *gin.Context) ([]upload.File, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return upload.FromMultipart(form.File[photosField]), nil
}

func failedUploads(res upload.Result) []createmodels.FailedUpload {
	return lo.Map(res.Failed, func(f upload.Failure, _ int) createmodels.FailedUpload {
		return createmodels.FailedUpload{Name: f.Name, Error: f.Err.Error()}
	})
}
