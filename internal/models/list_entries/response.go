package models

import (
	journal "io.winapps.traveljournal/internal/models/journal"
)

type ListEntriesResponse struct {
	Entries     []EntryResult `json:"entries"`
	Total       int           `json:"total"`
	SearchQuery string        `json:"searchQuery"`
	Notice      string        `json:"notice,omitempty"`
}

// EntryResult is an entry as listed, with its effective cover resolved.
type EntryResult struct {
	journal.Entry
	EffectiveCover *string `json:"effectiveCover"`
}

func NewEntryResult(e journal.Entry) EntryResult {
	r := EntryResult{Entry: e}
	if cover, ok := journal.EffectiveCover(e); ok {
		r.EffectiveCover = &cover
	}
	return r
}

func NewEntryResults(list []journal.Entry) []EntryResult {
	out := make([]EntryResult, 0, len(list))
	for _, e := range list {
		out = append(out, NewEntryResult(e))
	}
	return out
}
