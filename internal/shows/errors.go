package shows

import "errors"

var (
	// ErrProviderUnavailable indicates the search provider is not configured.
	ErrProviderUnavailable = errors.New("show search provider unavailable")
	// ErrEmptyTerm indicates a blank search term.
	ErrEmptyTerm = errors.New("search term required")
)
