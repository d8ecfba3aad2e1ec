package models

import (
	createmodels "io.winapps.traveljournal/internal/models/create_entry"
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

type AddPhotosResponse struct {
	Entry         listmodels.EntryResult      `json:"entry"`
	Added         []string                    `json:"added"`
	FailedUploads []createmodels.FailedUpload `json:"failedUploads"`
	Images        []string                    `json:"images"`
}
