package models

import (
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

type UpdateEntryResponse struct {
	Entry   listmodels.EntryResult   `json:"entry"`
	Entries []listmodels.EntryResult `json:"entries"`
	Notice  string                   `json:"notice,omitempty"`
}
