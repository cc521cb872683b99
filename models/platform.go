package models

import (
	"net/url"
	"strings"
)

// Platform identifies one of the supported storefronts.
type Platform string

const (
	Amazon   Platform = "Amazon"
	Flipkart Platform = "Flipkart"
	Myntra   Platform = "Myntra"
	Nykaa    Platform = "Nykaa"
)

// AllPlatforms lists the storefronts in the order their datasets are merged.
var AllPlatforms = []Platform{Amazon, Flipkart, Nykaa, Myntra}

// BaseURL returns the origin relative hrefs are resolved against.
func (p Platform) BaseURL() string {
	switch p {
	case Amazon:
		return "https://www.amazon.in"
	case Flipkart:
		return "https://www.flipkart.com"
	case Myntra:
		return "https://www.myntra.com"
	case Nykaa:
		return "https://www.nykaa.com"
	}
	return ""
}

// SearchURL builds the search-results URL for a keyword.
func (p Platform) SearchURL(keyword string) string {
	switch p {
	case Amazon:
		return p.BaseURL() + "/s?k=" + strings.ReplaceAll(keyword, " ", "+")
	case Flipkart:
		return p.BaseURL() + "/search?q=" + strings.ReplaceAll(keyword, " ", "+")
	case Myntra:
		return p.BaseURL() + "/" + strings.ReplaceAll(keyword, " ", "-") +
			"?rawQuery=" + url.QueryEscape(keyword)
	case Nykaa:
		return p.BaseURL() + "/search/result/?q=" + url.QueryEscape(keyword)
	}
	return ""
}

func (p Platform) String() string { return string(p) }
