package services

import (
	"regexp"
	"strings"

	"shelf-scraper/models"
)

// fallbackBrandRegexp captures the leading run of brand-like characters
// from a product name when no catalog brand matches.
var fallbackBrandRegexp = regexp.MustCompile(`^[a-zA-Z&\.\-']+`)

// BrandCatalog is an ordered, deduplicated set of known lower-case brand
// strings. It is loaded once per run and read-only thereafter, so it is
// safe to share across goroutines.
type BrandCatalog struct {
	brands   []string
	patterns []*regexp.Regexp
}

// NewBrandCatalog builds a catalog from raw brand strings, lower-casing,
// trimming and deduplicating while preserving first-seen order. Matching is
// catalog-order-dependent: the first brand that matches a product name wins.
func NewBrandCatalog(raw []string) *BrandCatalog {
	seen := make(map[string]struct{})
	c := &BrandCatalog{}
	for _, b := range raw {
		b = strings.ToLower(strings.TrimSpace(b))
		if b == "" {
			continue
		}
		if _, dup := seen[b]; dup {
			continue
		}
		seen[b] = struct{}{}
		c.brands = append(c.brands, b)
		c.patterns = append(c.patterns, regexp.MustCompile(`^(the\s+)?`+regexp.QuoteMeta(b)))
	}
	return c
}

// Brands returns the catalog contents in match order.
func (c *BrandCatalog) Brands() []string { return c.brands }

// Len returns the number of catalog brands.
func (c *BrandCatalog) Len() int { return len(c.brands) }

// Attribute assigns a brand to an already-normalized product name.
// Catalog brands are tried first, in order, matching the start of the name
// with an optional leading "the "; failing that, the leading run of
// letters/&/./-/' characters is taken as a best-effort guess. An empty
// result means the product stays unattributed, which is not an error.
func (c *BrandCatalog) Attribute(productName string) string {
	name := strings.ToLower(strings.TrimSpace(productName))
	if name == "" {
		return ""
	}

	for i, p := range c.patterns {
		if p.MatchString(name) {
			return c.brands[i]
		}
	}

	return strings.TrimSpace(fallbackBrandRegexp.FindString(name))
}

// AttributeAll stamps every record's BrandName in place.
func (c *BrandCatalog) AttributeAll(records []*models.Record) {
	for _, r := range records {
		r.BrandName = c.Attribute(r.ProductName)
	}
}
