package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shelf-scraper/models"
)

// AmazonExtractor reads Amazon search-result cards.
type AmazonExtractor struct{}

func (AmazonExtractor) Platform() models.Platform { return models.Amazon }

func (AmazonExtractor) ResultsSelector() string {
	return `div[data-component-type="s-search-result"]`
}

func (e AmazonExtractor) Extract(doc *goquery.Document, keyword string, limit int) []*models.RawListing {
	var out []*models.RawListing

	doc.Find(e.ResultsSelector()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}

		sponsored := false
		s.Find("span").EachWithBreak(func(_ int, sp *goquery.Selection) bool {
			if strings.Contains(sp.Text(), "Sponsored") {
				sponsored = true
				return false
			}
			return true
		})

		out = append(out, &models.RawListing{
			Keyword:   keyword,
			Rank:      len(out) + 1,
			Title:     firstText(s, "h2 span"),
			PriceText: firstText(s, ".a-price .a-offscreen"),
			MrpText:   firstText(s, `.a-price.a-text-price[data-a-strike="true"] .a-offscreen`),
			Href:      firstAttr(s, "h2 a", "href"),
			Sponsored: sponsored,
			Platform:  models.Amazon,
		})
		return true
	})

	return out
}
