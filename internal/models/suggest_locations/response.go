package models

import (
	journal "io.winapps.traveljournal/internal/models/journal"
)

type SuggestLocationsResponse struct {
	Seq         uint64             `json:"seq"`
	Suggestions []journal.Location `json:"suggestions"`
	// Stale is set when a newer lookup from the same client was already
	// issued; Suggestions is empty then.
	Stale bool `json:"stale,omitempty"`
}
