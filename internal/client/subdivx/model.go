package subdivx

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

// SearchQuery identifies the episode whose subtitles are wanted.
type SearchQuery struct {
	// SeriesName is the series title, e.g. "Show Name".
	SeriesName string
	// SeriesID is the episode identifier, e.g. "1x01".
	SeriesID string
	// SeriesQuality is the release quality, e.g. "720p". It is not sent to the site.
	SeriesQuality string
}

// SearchPhrase returns the text sent to the search endpoint.
func (q SearchQuery) SearchPhrase() string {
	return q.SeriesName + " " + q.SeriesID
}

// SearchMatch returns the text result descriptions are scored against.
func (q SearchQuery) SearchMatch() string {
	return fmt.Sprintf("%s %s %s", q.SeriesName, q.SeriesID, q.SeriesQuality)
}

// SearchResult is a single result block of the search page.
type SearchResult struct {
	// Description is the concatenated text of the result block.
	Description string
	// Link is the raw href found after the block, empty if there is none.
	Link string
	// Base is the page URL relative links resolve against. Nil leaves them as they are.
	Base *url.URL
}

// DownloadURL resolves Link against Base. It returns an empty string when the block had no link.
func (r SearchResult) DownloadURL() (string, error) {
	href := strings.TrimSpace(r.Link)
	if href == "" {
		return "", nil
	}

	link, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidDownloadURL, href, err)
	}

	if r.Base == nil {
		return link.String(), nil
	}

	return r.Base.ResolveReference(link).String(), nil
}

// DownloadResult is an open download stream.
type DownloadResult struct {
	// Body is the response body; the caller closes it.
	Body io.ReadCloser
	// TotalBytes is the announced length, -1 when unknown.
	TotalBytes int64
}
