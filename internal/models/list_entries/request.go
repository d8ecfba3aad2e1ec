package models

// ListEntriesRequest is the body of both the dashboard and explore listings.
type ListEntriesRequest struct {
	SearchQuery string `json:"searchQuery,omitempty" form:"q"`
}
