package models

import (
	listmodels "io.winapps.traveljournal/internal/models/list_entries"
)

type RemovePhotoResponse struct {
	Entry  listmodels.EntryResult `json:"entry"`
	Images []string               `json:"images"`
}
