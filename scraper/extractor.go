package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shelf-scraper/models"
)

// Extractor maps one storefront's rendered search-results page onto raw
// listing records. Implementations are pure with respect to the document
// they are given: read-only queries, no side effects, and a zero-result
// extraction is a valid outcome. Missing sub-fields never fail a record;
// they degrade to empty values.
//
// Adding a fifth storefront means adding one Extractor implementation; the
// orchestrator does not change.
type Extractor interface {
	// Platform identifies the storefront and supplies its base origin and
	// search-URL template.
	Platform() models.Platform

	// ResultsSelector is the CSS selector of the product container nodes
	// the fetch waits for before extraction.
	ResultsSelector() string

	// Extract yields at most limit raw listings from the document, ordered
	// by on-page rank.
	Extract(doc *goquery.Document, keyword string, limit int) []*models.RawListing
}

// ForPlatform returns the extractor for a storefront, or nil for an
// unknown platform.
func ForPlatform(p models.Platform) Extractor {
	switch p {
	case models.Amazon:
		return AmazonExtractor{}
	case models.Flipkart:
		return FlipkartExtractor{}
	case models.Myntra:
		return MyntraExtractor{}
	case models.Nykaa:
		return NykaaExtractor{}
	}
	return nil
}

// firstText returns the trimmed text of the first node matching sel, or ""
// when absent.
func firstText(s *goquery.Selection, sel string) string {
	return strings.TrimSpace(s.Find(sel).First().Text())
}

// firstAttr returns the named attribute of the first node matching sel, or
// "" when absent.
func firstAttr(s *goquery.Selection, sel, attr string) string {
	v, _ := s.Find(sel).First().Attr(attr)
	return strings.TrimSpace(v)
}
