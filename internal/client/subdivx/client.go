package subdivx

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/oshokin/subdivx-grabber/internal/config"
	"github.com/oshokin/subdivx-grabber/internal/logger"
	http_transport "github.com/oshokin/subdivx-grabber/internal/transport/http"
)

// Client defines the interface for interacting with subdivx.
type Client interface {
	// SearchURL returns the search request URL for the query.
	SearchURL(query SearchQuery) string
	// Search fetches the results page for the query and parses its result blocks.
	Search(ctx context.Context, query SearchQuery) ([]SearchResult, error)
	// Download opens a stream to the archive at downloadURL.
	Download(ctx context.Context, downloadURL string) (*DownloadResult, error)
}

// ClientImpl implements the Client interface over HTTP.
type ClientImpl struct {
	// searchURL is the search endpoint without query parameters.
	searchURL *url.URL
	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// NewClient creates a client from a validated configuration.
func NewClient(cfg *config.Config) Client {
	timeout := cfg.ParsedRequestTimeout
	if timeout == 0 {
		timeout = http_transport.DefaultTimeout
	}

	httpClient := &http.Client{
		Transport: http_transport.NewUserAgentInjector(
			http_transport.NewLogTransport(http.DefaultTransport, 0),
			cfg.UserAgent),
		Timeout: timeout,
	}

	return NewClientWithHTTPClient(cfg.ParsedSearchURL, httpClient)
}

// NewClientWithHTTPClient creates a client that sends requests through httpClient.
func NewClientWithHTTPClient(searchURL *url.URL, httpClient *http.Client) Client {
	return &ClientImpl{
		searchURL:  searchURL,
		httpClient: httpClient,
	}
}

// SearchURL returns the search request URL for the query.
func (c *ClientImpl) SearchURL(query SearchQuery) string {
	var rawQuery strings.Builder

	rawQuery.WriteString(searchQueryParameter)
	rawQuery.WriteByte('=')
	rawQuery.WriteString(url.QueryEscape(query.SearchPhrase()))

	for _, parameter := range fixedSearchParameters {
		rawQuery.WriteByte('&')
		rawQuery.WriteString(parameter[0])
		rawQuery.WriteByte('=')
		rawQuery.WriteString(url.QueryEscape(parameter[1]))
	}

	searchURL := *c.searchURL
	searchURL.RawQuery = rawQuery.String()

	return searchURL.String()
}

// Search fetches the results page for the query and parses its result blocks.
func (c *ClientImpl) Search(ctx context.Context, query SearchQuery) ([]SearchResult, error) {
	searchURL := c.SearchURL(query)

	logger.Debug(ctx, "Starting request to subdivx")
	logger.Debugf(ctx, "Search Query URL: %s", searchURL)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	body, err := charset.NewReader(response.Body, response.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode search page: %w", err)
	}

	// Redirects change the base that relative links resolve against.
	return ParseSearchResults(body, response.Request.URL)
}

// Download opens a stream to the archive at downloadURL.
func (c *ClientImpl) Download(ctx context.Context, downloadURL string) (*DownloadResult, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		response.Body.Close() //nolint:errcheck,gosec // Error on close is not critical here.

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	return &DownloadResult{
		Body:       response.Body,
		TotalBytes: response.ContentLength,
	}, nil
}
