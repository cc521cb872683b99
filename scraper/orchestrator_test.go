package scraper

import (
	"context"
	"sync/atomic"
	"testing"

	"shelf-scraper/config"
	"shelf-scraper/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Concurrency: map[models.Platform]int{
			models.Amazon: 2,
		},
		PageLoadTimeoutSec: 1,
		SelectorTimeoutSec: 1,
		MaxListings:        10,
		Headless:           true,
	}
}

func TestRunIsolatesKeywordFailures(t *testing.T) {
	o := NewOrchestrator(AmazonExtractor{}, testConfig())

	// One keyword exhausts its retry and yields nothing; its siblings
	// must still be collected.
	o.fetchFn = func(_ context.Context, keyword string) []*models.RawListing {
		if keyword == "kajal" {
			return nil
		}
		return []*models.RawListing{
			{Keyword: keyword, Rank: 1, Title: "Item", Platform: models.Amazon},
		}
	}

	results := o.Run([]string{"red lipstick", "kajal", "sunscreen"})

	if len(results) != 2 {
		t.Fatalf("got %d listings; want 2 from surviving keywords", len(results))
	}
	for _, l := range results {
		if l.Keyword == "kajal" {
			t.Errorf("failed keyword contributed a listing: %+v", l)
		}
	}
}

func TestRunFetchesDuplicateKeywordsOnce(t *testing.T) {
	o := NewOrchestrator(AmazonExtractor{}, testConfig())

	var calls int64
	o.fetchFn = func(_ context.Context, keyword string) []*models.RawListing {
		atomic.AddInt64(&calls, 1)
		return []*models.RawListing{
			{Keyword: keyword, Rank: 1, Title: "Item", Platform: models.Amazon},
		}
	}

	results := o.Run([]string{"kajal", "kajal", "kajal"})

	if calls != 1 {
		t.Errorf("fetch called %d times; want 1 for duplicate keywords", calls)
	}
	if len(results) != 1 {
		t.Errorf("got %d listings; want 1", len(results))
	}
}

func TestRunAllKeywordsFailYieldsEmpty(t *testing.T) {
	o := NewOrchestrator(AmazonExtractor{}, testConfig())

	o.fetchFn = func(_ context.Context, _ string) []*models.RawListing {
		return nil
	}

	if results := o.Run([]string{"a", "b"}); len(results) != 0 {
		t.Errorf("got %d listings; want 0 when every keyword fails", len(results))
	}
}
