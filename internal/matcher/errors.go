package matcher

import (
	"errors"
	"strings"
)

var (
	// ErrNoResults indicates that the search page had no result blocks.
	ErrNoResults = errors.New("no results")
	// ErrDownloadLinkNotFound indicates that the selected result has no download link.
	ErrDownloadLinkNotFound = errors.New("download link not found")
)

// NoResultsError reports an empty search together with the episode that was looked for.
type NoResultsError struct {
	SeriesName    string
	SeriesID      string
	SeriesQuality string
}

// Error implements the error interface.
func (e *NoResultsError) Error() string {
	return strings.Join([]string{
		"No suitable subtitles were found for:",
		e.SeriesName,
		e.SeriesID,
		e.SeriesQuality,
	}, " ")
}

// Unwrap lets errors.Is match ErrNoResults.
func (e *NoResultsError) Unwrap() error {
	return ErrNoResults
}
