package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"shelf-scraper/models"
)

// FlipkartExtractor reads Flipkart search-result cards.
type FlipkartExtractor struct{}

func (FlipkartExtractor) Platform() models.Platform { return models.Flipkart }

func (FlipkartExtractor) ResultsSelector() string {
	return "div._75nlfW > div"
}

func (e FlipkartExtractor) Extract(doc *goquery.Document, keyword string, limit int) []*models.RawListing {
	var out []*models.RawListing

	doc.Find(e.ResultsSelector()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}

		out = append(out, &models.RawListing{
			Keyword:      keyword,
			Rank:         len(out) + 1,
			Title:        firstText(s, "a.wjcEIp"),
			PriceText:    firstText(s, "div.Nx9bqj"),
			MrpText:      firstText(s, "div.yRaY8j"),
			DiscountText: firstText(s, "div.UkUFwK span"),
			Href:         firstAttr(s, "a.VJA3rP", "href"),
			Sponsored:    s.Find("div.xgS27m").Length() > 0,
			Platform:     models.Flipkart,
		})
		return true
	})

	return out
}
