package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shelf-scraper/models"
)

// MyntraExtractor reads Myntra search-result cards. Myntra splits the name
// across a brand heading and a product line, and is the only storefront
// exposing rating and review counts on the results page.
type MyntraExtractor struct{}

func (MyntraExtractor) Platform() models.Platform { return models.Myntra }

func (MyntraExtractor) ResultsSelector() string {
	return "li.product-base"
}

func (e MyntraExtractor) Extract(doc *goquery.Document, keyword string, limit int) []*models.RawListing {
	var out []*models.RawListing

	doc.Find(e.ResultsSelector()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}

		brand := firstText(s, "h3.product-brand")
		product := firstText(s, "h4.product-product")
		title := strings.TrimSpace(brand + " " + product)

		sponsored := false
		if mark := firstText(s, "div.product-waterMark"); mark != "" {
			sponsored = strings.Contains(strings.ToUpper(mark), "AD")
		}

		reviews := firstText(s, "div.product-ratingsCount")
		reviews = strings.TrimSpace(strings.ReplaceAll(reviews, "|", ""))

		out = append(out, &models.RawListing{
			Keyword:      keyword,
			Rank:         len(out) + 1,
			Title:        title,
			PriceText:    firstText(s, "span.product-discountedPrice"),
			MrpText:      firstText(s, "span.product-strike"),
			DiscountText: firstText(s, "span.product-discountPercentage"),
			Href:         firstAttr(s, "a", "href"),
			Sponsored:    sponsored,
			RatingText:   firstText(s, "div.product-ratingsContainer > span"),
			ReviewsText:  reviews,
			Platform:     models.Myntra,
		})
		return true
	})

	return out
}
