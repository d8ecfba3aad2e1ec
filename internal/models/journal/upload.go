package models

import "time"

// Upload is one stored object recorded in the upload ledger.
type Upload struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	OwnerID     string    `json:"ownerId"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}
