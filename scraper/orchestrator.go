package scraper

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"

	"shelf-scraper/config"
	"shelf-scraper/models"
	"shelf-scraper/utils"
)

// Orchestrator drives the per-keyword fetch loop for one storefront:
// navigation, single-reload retry, bot-challenge detection and
// bounded-concurrency scheduling. Each fetch session owns an isolated
// browsing context with its own randomized identity, so keywords never
// share extraction state. A keyword's failure never aborts the batch.
type Orchestrator struct {
	extractor Extractor
	cfg       *config.Config
	detector  BotDetector
	pool      *utils.WorkerPool
	seen      *utils.KeywordSet

	// fetchFn runs one keyword's fetch session. It defaults to the
	// chromedp path and is swapped out in tests.
	fetchFn func(allocCtx context.Context, keyword string) []*models.RawListing

	mu      sync.Mutex
	results []*models.RawListing
}

// NewOrchestrator creates an Orchestrator for the given extractor, sized
// from the platform's configured pool.
func NewOrchestrator(extractor Extractor, cfg *config.Config) *Orchestrator {
	o := &Orchestrator{
		extractor: extractor,
		cfg:       cfg,
		detector:  DefaultBotDetector,
		pool:      utils.NewWorkerPool(cfg.Concurrency[extractor.Platform()], 0),
		seen:      utils.NewKeywordSet(),
	}
	o.fetchFn = o.fetchKeyword
	return o
}

// SetBotDetector swaps the challenge-page predicate.
func (o *Orchestrator) SetBotDetector(d BotDetector) {
	if d != nil {
		o.detector = d
	}
}

// Run fetches every keyword and returns whatever listings were collected,
// in arrival order. Duplicate keywords in the input are fetched once.
func (o *Orchestrator) Run(keywords []string) []*models.RawListing {
	platform := o.extractor.Platform()
	log.Infof("[%s] starting — %d keywords, %d concurrent sessions",
		platform, len(keywords), o.cfg.Concurrency[platform])

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", o.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if bin := findChromeBinary(o.cfg.ChromeBin); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	for _, kw := range keywords {
		kw := kw
		if !o.seen.Add(kw) {
			log.Debugf("[%s] duplicate keyword skipped: %q", platform, kw)
			continue
		}
		o.pool.Submit(func() {
			listings := o.fetchFn(allocCtx, kw)
			if len(listings) == 0 {
				return
			}
			o.mu.Lock()
			o.results = append(o.results, listings...)
			o.mu.Unlock()
		})
	}
	o.pool.Wait()

	log.Infof("[%s] fetch complete — %d raw listings from %d keywords",
		platform, len(o.results), o.seen.Size())
	return o.results
}

// fetchKeyword runs one isolated browsing session: randomized identity,
// non-essential resources blocked, navigate, scroll, wait for results, one
// reload retry, then extraction. Any terminal failure yields zero records.
func (o *Orchestrator) fetchKeyword(allocCtx context.Context, keyword string) []*models.RawListing {
	platform := o.extractor.Platform()
	url := platform.SearchURL(keyword)
	log.Infof("[%s] searching: %q", platform, keyword)

	ctx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	budget := time.Duration(2*(o.cfg.PageLoadTimeoutSec+o.cfg.SelectorTimeoutSec)+20) * time.Second
	ctx, cancelTimeout := context.WithTimeout(ctx, budget)
	defer cancelTimeout()

	blockResources(ctx)

	vp := utils.RandomViewport()
	if err := chromedp.Run(ctx,
		fetch.Enable(),
		emulation.SetUserAgentOverride(utils.RandomUserAgent()),
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)),
	); err != nil {
		log.Errorf("[%s] session setup failed for %q: %v", platform, keyword, err)
		return nil
	}

	// First attempt, then exactly one reload retry. Bot challenges are not
	// retried; a reload rarely clears them.
	if err := o.loadResults(ctx, url, false); err != nil {
		log.Warnf("[%s] first attempt failed for %q: %v — reloading", platform, keyword, err)
		if err := o.loadResults(ctx, url, true); err != nil {
			log.Errorf("[%s] still failed after retry for %q: %v", platform, keyword, err)
			return nil
		}
	}

	var title, html string
	if err := chromedp.Run(ctx,
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		log.Errorf("[%s] could not read page for %q: %v", platform, keyword, err)
		return nil
	}

	if o.detector(title, html) {
		log.Warnf("[%s] bot challenge page for %q — abandoning keyword", platform, keyword)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Errorf("[%s] could not parse page for %q: %v", platform, keyword, err)
		return nil
	}

	listings := o.extractor.Extract(doc, keyword, o.cfg.MaxListings)
	log.Infof("[%s] %q: %d listings", platform, keyword, len(listings))
	return listings
}

// loadResults navigates (or reloads), simulates a human scroll and waits
// for the results container to appear.
func (o *Orchestrator) loadResults(ctx context.Context, url string, reload bool) error {
	var nav chromedp.Action = chromedp.Navigate(url)
	if reload {
		nav = chromedp.Reload()
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, time.Duration(o.cfg.PageLoadTimeoutSec)*time.Second)
	err := chromedp.Run(loadCtx, nav)
	cancelLoad()
	if err != nil {
		return fmt.Errorf("navigate: %w", err)
	}

	if err := chromedp.Run(ctx, humanScroll()); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}

	sel := o.extractor.ResultsSelector()
	waitCtx, cancelWait := context.WithTimeout(ctx, time.Duration(o.cfg.SelectorTimeoutSec)*time.Second)
	defer cancelWait()
	if err := chromedp.Run(waitCtx, chromedp.WaitReady(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait for %q: %w", sel, err)
	}
	return nil
}

// humanScroll wheels the page down twice with randomized distance and pause.
func humanScroll() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for i := 0; i < 2; i++ {
			dist := utils.RandomBetween(800, 1200)
			if err := chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", dist), nil).Do(ctx); err != nil {
				return err
			}
			pause := time.Duration(utils.RandomBetween(500, 1000)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pause):
			}
		}
		return nil
	})
}

// blockResources aborts image, media and font requests for the session.
// Interception stays on for the whole context, so it also covers reloads.
func blockResources(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		pev, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(ctx)
			ectx := cdp.WithExecutor(ctx, c.Target)
			switch pev.ResourceType {
			case network.ResourceTypeImage, network.ResourceTypeMedia, network.ResourceTypeFont:
				_ = fetch.FailRequest(pev.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
			default:
				_ = fetch.ContinueRequest(pev.RequestID).Do(ectx)
			}
		}()
	})
}
