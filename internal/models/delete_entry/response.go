package models

import (
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

type DeleteEntryResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Entries []listmodels.EntryResult `json:"entries"`
	Notice  string                   `json:"notice,omitempty"`
}
