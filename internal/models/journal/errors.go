package models

import "errors"

var (
	// ErrValidation marks input rejected before any remote call.
	ErrValidation = errors.New("validation failed")
	// ErrRemoteUnavailable marks a failed store or storage call.
	ErrRemoteUnavailable = errors.New("remote unavailable")
	// ErrNotFound marks a mutation target that no longer exists.
	ErrNotFound = errors.New("entry not found")
	// ErrSuggestionUnavailable marks a failed geocoding lookup.
	ErrSuggestionUnavailable = errors.New("location suggestions unavailable")
)
