package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	journal "io.winapps.traveljournal/internal/models/journal"
)

// statusFor maps a service error to its HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, journal.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, journal.ErrNotFound):
		return http.StatusNotFound, "Entry not found or access denied"
	case errors.Is(err, journal.ErrRemoteUnavailable):
		return http.StatusServiceUnavailable, "Journal storage is unavailable, please try again"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// validationMessage keeps the part after "validation failed: ".
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, journal.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(journal.ErrValidation.Error())+2:]
	}
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// HandleServiceError writes the JSON error response for err and logs it.
func (h *EntryHandler) HandleServiceError(c *gin.Context, err error, msg string, fields ...interface{}) {
	status, clientMsg := statusFor(err)
	level := "warn"
	if status >= http.StatusInternalServerError {
		level = "error"
	}
	logWithContext(h.logger, c, level, msg, append(fields, "error", err, "status", status)...)
	c.JSON(status, gin.H{"error": clientMsg})
}
