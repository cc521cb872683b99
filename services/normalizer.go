package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"

	"shelf-scraper/models"
)

var (
	// priceRegexp captures numeric price values
	priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
	// numberRegexp captures the first numeric substring, e.g. "31" out of "(31% OFF)"
	numberRegexp = regexp.MustCompile(`(\d+\.?\d*)`)
	// nonASCIIRegexp matches runs of non-ASCII characters stripped from names
	nonASCIIRegexp = regexp.MustCompile(`[^\x00-\x7F]+`)
)

const maxNameLen = 100

// stockVocabulary maps raw stock-status phrasings to the canonical values.
var stockVocabulary = map[string]string{
	"in stock":      models.StockIn,
	"available":     models.StockIn,
	"out of stock":  models.StockOut,
	"unavailable":   models.StockOut,
	"not available": models.StockOut,
	"":              models.StockOut,
	"n/a":           models.StockOut,
}

// Normalizer transforms RawListings into canonical Records.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeAll processes raw listings and returns canonical records.
// Listings whose cleaned product name is empty are dropped entirely; they
// carry no identifying signal.
func (n *Normalizer) NormalizeAll(raw []*models.RawListing) []*models.Record {
	result := make([]*models.Record, 0, len(raw))
	for _, r := range raw {
		rec, ok := n.Normalize(r)
		if !ok {
			log.Warnf("[normalize] %s: dropping rank %d for %q — empty product name",
				r.Platform, r.Rank, r.Keyword)
			continue
		}
		result = append(result, rec)
	}
	return result
}

// Normalize converts a single raw listing. The second return value is false
// when the record must be dropped from the platform dataset.
func (n *Normalizer) Normalize(r *models.RawListing) (*models.Record, bool) {
	name := NormalizeName(r.Title)
	if name == "" {
		return nil, false
	}

	price := parsePrice(r.PriceText)
	mrp := parsePrice(r.MrpText)
	if mrp == nil {
		mrp = price
	}
	// Struck-through prices below the selling price are site typos; clamp
	// so mrp >= price always holds and no negative discount is derived.
	if mrp != nil && price != nil && *mrp < *price {
		log.Debugf("[normalize] %s rank %d: mrp %.2f below price %.2f, clamping",
			r.Platform, r.Rank, *mrp, *price)
		mrp = price
	}

	rec := &models.Record{
		Keyword:         r.Keyword,
		Rank:            r.Rank,
		ListingType:     listingType(r.Sponsored),
		ProductName:     name,
		Price:           price,
		Mrp:             mrp,
		DiscountPercent: discountPercent(price, mrp, r.DiscountText),
		StockStatus:     NormalizeStock(stockFromPrice(price)),
		URL:             ResolveURL(r.Platform, r.Href),
		Platform:        r.Platform,
		Rating:          strings.TrimSpace(r.RatingText),
		ReviewCount:     strings.TrimSpace(r.ReviewsText),
	}
	return rec, true
}

// NormalizeName trims, collapses internal whitespace, strips non-ASCII,
// lower-cases and truncates a raw product title. Idempotent.
func NormalizeName(s string) string {
	s = nonASCIIRegexp.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	s = strings.ToLower(strings.Join(fields, " "))
	if len(s) > maxNameLen {
		s = s[:maxNameLen]
	}
	return strings.TrimSpace(s)
}

// NormalizeStock maps a raw stock-status phrase onto the fixed vocabulary.
// Unknown phrasings pass through lower-cased so they stay visible downstream.
func NormalizeStock(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := stockVocabulary[key]; ok {
		return v
	}
	if key == models.StockIn || key == models.StockOut {
		return key
	}
	return key
}

// ResolveURL resolves a possibly-relative href against the platform origin.
// An absent href degrades to "N/A".
func ResolveURL(p models.Platform, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "N/A" {
		return "N/A"
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return p.BaseURL() + href
}

// parsePrice extracts a numeric value from currency-formatted text like
// "₹1,299" or "Rs. 599". Unparsable or absent text yields nil.
func parsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "N/A") {
		return nil
	}

	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		log.Debugf("[normalize] unparsable price text %q", raw)
		return nil
	}

	val, err := strconv.ParseFloat(match, 64)
	if err != nil || val < 0 {
		log.Debugf("[normalize] unparsable price text %q", raw)
		return nil
	}
	return &val
}

// discountPercent computes the discount from price and mrp when both are
// known and mrp > price, otherwise falls back to the first numeric
// substring of the raw discount text.
func discountPercent(price, mrp *float64, discountText string) *float64 {
	if price != nil && mrp != nil && *mrp > *price {
		d := round2(100 * (*mrp - *price) / *mrp)
		return &d
	}

	match := numberRegexp.FindStringSubmatch(discountText)
	if len(match) < 2 {
		return nil
	}
	val, err := strconv.ParseFloat(match[1], 64)
	if err != nil || val < 0 || val > 100 {
		return nil
	}
	return &val
}

// stockFromPrice derives availability from price presence: a listing with
// no visible price is treated as out of stock.
func stockFromPrice(price *float64) string {
	if price != nil {
		return models.StockIn
	}
	return models.StockOut
}

func listingType(sponsored bool) string {
	if sponsored {
		return models.ListingSponsored
	}
	return models.ListingOrganic
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
