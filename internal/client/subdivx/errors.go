package subdivx

import "errors"

var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrInvalidDownloadURL indicates that a result link could not be resolved to a URL.
	ErrInvalidDownloadURL = errors.New("invalid download URL")
)
