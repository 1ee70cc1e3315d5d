// Package subdivx provides a client for the subdivx.com subtitle search page.
// It builds the search request, decodes the latin-1 results page, parses result blocks
// with their download links, and streams the selected archive.
package subdivx
