package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shelf-scraper/models"
)

// NykaaExtractor reads Nykaa search-result cards. On Nykaa the card element
// is itself the product link; the sponsorship tag sits two levels up.
type NykaaExtractor struct{}

func (NykaaExtractor) Platform() models.Platform { return models.Nykaa }

func (NykaaExtractor) ResultsSelector() string {
	return "a.css-qlopj4"
}

func (e NykaaExtractor) Extract(doc *goquery.Document, keyword string, limit int) []*models.RawListing {
	var out []*models.RawListing

	doc.Find(e.ResultsSelector()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}

		href, _ := s.Attr("href")

		sponsored := false
		s.Parent().Parent().Find("li.custom-tag").EachWithBreak(func(_ int, tag *goquery.Selection) bool {
			if strings.Contains(strings.ToUpper(tag.Text()), "AD") {
				sponsored = true
				return false
			}
			return true
		})

		out = append(out, &models.RawListing{
			Keyword:   keyword,
			Rank:      len(out) + 1,
			Title:     firstText(s, "div.css-xrzmfa"),
			PriceText: firstText(s, "span.css-111z9ua"),
			MrpText:   firstText(s, "span.css-17x46n5 span"),
			Href:      strings.TrimSpace(href),
			Sponsored: sponsored,
			Platform:  models.Nykaa,
		})
		return true
	})

	return out
}
