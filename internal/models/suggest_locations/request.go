package models

// SuggestLocationsRequest is the query string of a suggestion lookup. Seq is
// chosen by the caller and echoed back so stale replies can be dropped.
type SuggestLocationsRequest struct {
	Query string `form:"q"`
	Seq   uint64 `form:"seq"`
}
