// Package fetch - browser.go provides headless browser rendering for profile pages
// whose description tag is injected by JavaScript.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chrome and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
type BrowserFetcher struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready for scripts to run.
	Settle time.Duration
}

// NewBrowserFetcher creates a BrowserFetcher with the given page timeout.
func NewBrowserFetcher(timeout time.Duration) *BrowserFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BrowserFetcher{
		Timeout: timeout,
		Settle:  2 * time.Second,
	}
}

// Fetch implements Fetcher. Every call starts its own browser process.
func (f *BrowserFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body"),
		chromedp.Sleep(f.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "browser rendering failed",
			Cause:   fmt.Errorf("chromedp: %w", err),
		}
	}

	return &Result{
		URL:         urlStr,
		HTML:        html,
		ContentType: "text/html",
		StatusCode:  200,
	}, nil
}
