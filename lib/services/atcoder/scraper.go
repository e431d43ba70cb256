package atcoder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

const (
	viewportWidth  = 1000
	viewportHeight = 900

	// Clip rectangle of the rating-history graph on the profile page
	graphClipX      = 290
	graphClipY      = 370
	graphClipWidth  = 640
	graphClipHeight = 445

	// Layout-dependent selectors. If AtCoder changes the profile page,
	// this file is the only place that needs to follow.
	ratingSelector = "#main-container div.row div:nth-of-type(3) table.dl-table tbody tr:nth-of-type(2) td span"
	rankSelector   = "#main-container div.row div:nth-of-type(3) table.dl-table tbody tr:nth-of-type(3) td span.bold"

	networkIdleTimeout = 20 * time.Second
	textReadTimeout    = 2 * time.Second
)

// Scraper drives a headless Chrome session against the AtCoder profile page.
// Each Snapshot call acquires its own browser and releases it on every exit
// path, so a long-lived worker process never accumulates sessions.
type Scraper struct {
	BaseURL    string
	ChromePath string
	Limiter    *rate.Limiter
}

// NewScraper creates a scraper for the given AtCoder base URL.
// chromePath may be empty to use the Chrome found on PATH.
func NewScraper(baseURL string, chromePath string) *Scraper {
	return &Scraper{
		BaseURL:    baseURL,
		ChromePath: chromePath,
		// One page load at a time, at most one every 2 seconds
		Limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

var _ SnapshotProvider = (*Scraper)(nil)

// Snapshot loads the user's profile page, reads the rating and rank text, and
// captures the rating graph region. Missing rating or rank text is tolerated
// (0 / gray tier); a failed screenshot fails the snapshot since no banner can
// be built without it.
func (s *Scraper) Snapshot(ctx context.Context, atcoderID string) (*Snapshot, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	if s.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	url := fmt.Sprintf("%s/users/%s/?lang=ja&graph=rating", s.BaseURL, atcoderID)

	err := chromedp.Run(taskCtx,
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		enableLifecycleEvents(),
		navigateAndWaitIdle(url, networkIdleTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile page for %q: %w", atcoderID, err)
	}

	rating := readRating(taskCtx)
	rank := readRank(taskCtx)

	graph, err := captureGraph(taskCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture rating graph for %q: %w", atcoderID, err)
	}

	return &Snapshot{
		Rating: rating,
		Tier:   TierFor(rating),
		Rank:   rank,
		Graph:  graph,
	}, nil
}

// readRating reads the numeric rating from the page. Unrated users have no
// rating cell, so any read or parse failure defaults to 0.
func readRating(taskCtx context.Context) int {
	text, err := readText(taskCtx, ratingSelector)
	if err != nil {
		return 0
	}
	rating, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return rating
}

// readRank reads the promotion rank text (級/段/伝). Missing text is
// tolerated and returns an empty string.
func readRank(taskCtx context.Context) string {
	text, err := readText(taskCtx, rankSelector)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

func readText(taskCtx context.Context, selector string) (string, error) {
	tctx, cancel := context.WithTimeout(taskCtx, textReadTimeout)
	defer cancel()

	var text string
	err := chromedp.Run(tctx, chromedp.Text(selector, &text, chromedp.ByQuery))
	return text, err
}

func captureGraph(taskCtx context.Context) ([]byte, error) {
	var shot []byte
	err := chromedp.Run(taskCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		buf, err := page.CaptureScreenshot().
			WithClip(&page.Viewport{
				X:      graphClipX,
				Y:      graphClipY,
				Width:  graphClipWidth,
				Height: graphClipHeight,
				Scale:  1,
			}).
			Do(ctx)
		if err != nil {
			return err
		}
		shot = buf
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return shot, nil
}

func enableLifecycleEvents() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		return page.SetLifecycleEventsEnabled(true).Do(ctx)
	}
}

// navigateAndWaitIdle navigates and blocks until the page reaches the
// networkIdle lifecycle event. The rating graph is rendered from data loaded
// after DOMContentLoaded, so load alone is not enough.
func navigateAndWaitIdle(url string, timeout time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		idle := make(chan struct{})
		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		chromedp.ListenTarget(listenCtx, func(ev interface{}) {
			if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
				select {
				case <-idle:
				default:
					close(idle)
				}
			}
		})

		if _, _, _, err := page.Navigate(url).Do(ctx); err != nil {
			return err
		}

		select {
		case <-idle:
			return nil
		case <-time.After(timeout):
			return fmt.Errorf("timed out waiting for network idle after %s", timeout)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
