package subdivx

import (
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// ParseSearchResults extracts result blocks from a search page in document order.
// Links are kept raw and resolved against base only when a result is downloaded.
func ParseSearchResults(r io.Reader, base *url.URL) ([]SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	descriptions := doc.Find(resultDescriptionSelector)
	results := make([]SearchResult, 0, descriptions.Length())

	descriptions.Each(func(_ int, description *goquery.Selection) {
		href, _ := description.Next().Find(downloadLinkSelector).First().Attr("href")

		results = append(results, SearchResult{
			Description: description.Text(),
			Link:        href,
			Base:        base,
		})
	})

	return results, nil
}
