package utils

import "math/rand"

// userAgents is the pool of browser identities a fetch session can assume.
// Immutable after load; safe for concurrent reads.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/116 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Chrome/114 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) Chrome/113 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) Firefox/102.0",
}

// Viewport is a browser window size a fetch session emulates.
type Viewport struct {
	Width  int
	Height int
}

var viewports = []Viewport{
	{Width: 1280, Height: 800},
	{Width: 1440, Height: 900},
	{Width: 1920, Height: 1080},
}

// RandomUserAgent picks a user agent for a new browsing context.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// RandomViewport picks a viewport for a new browsing context.
func RandomViewport() Viewport {
	return viewports[rand.Intn(len(viewports))]
}

// RandomBetween returns a random int in [min, max].
func RandomBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}
