package scraper

import "strings"

// BotDetector decides whether a rendered page is an anti-automation
// challenge rather than real results. It is a deliberately narrow,
// pluggable predicate: the right detection policy varies by deployment, so
// callers can swap in their own.
type BotDetector func(title, html string) bool

// DefaultBotDetector flags the robot interstitial title and captcha markers
// in the page body.
func DefaultBotDetector(title, html string) bool {
	if strings.Contains(title, "Robot") {
		return true
	}
	return strings.Contains(strings.ToLower(html), "captcha")
}
