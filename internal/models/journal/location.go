package models

// Location is one geocoding candidate offered while typing a location.
type Location struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	DisplayName string  `json:"displayName"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}
