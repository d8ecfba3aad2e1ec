package models

import (
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

type CreateEntryResponse struct {
	Entry         listmodels.EntryResult   `json:"entry"`
	FailedUploads []FailedUpload           `json:"failedUploads"`
	Entries       []listmodels.EntryResult `json:"entries"`
	Notice        string                   `json:"notice,omitempty"`
}

// FailedUpload is a selected photo that was skipped.
type FailedUpload struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}
