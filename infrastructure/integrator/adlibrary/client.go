// Package adlibrary renders advertiser pages of the ad library in a headless
// browser and extracts the raw fields of every visible ad card.
package adlibrary

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
	"github.com/vfg2006/adlibrary-tracker/internal/domain"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

// Options configures page interaction
type Options struct {
	Headless    bool
	Lang        string
	Timeout     time.Duration
	ScrollDelay time.Duration
	SettleDelay time.Duration
	MaxScrolls  int
}

// OptionsFromConfig maps the browser settings
func OptionsFromConfig(cfg config.Browser) Options {
	return Options{
		Headless:    cfg.Headless,
		Lang:        cfg.Lang,
		Timeout:     cfg.ScrapeTimeout,
		ScrollDelay: cfg.ScrollDelay,
		SettleDelay: cfg.SettleDelay,
		MaxScrolls:  cfg.MaxScrolls,
	}
}

// Client shares one browser process; every scrape runs in its own tab
type Client struct {
	opts Options

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	startOnce sync.Once
	startErr  error
}

func NewClient(ctx context.Context, opts Options) *Client {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("lang", opts.Lang),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	return &Client{
		opts:          opts,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}
}

// Scrape renders url and extracts its ad cards
func (c *Client) Scrape(ctx context.Context, url string) (*domain.ScrapeResult, error) {
	page, err := c.Render(ctx, url)
	if err != nil {
		return nil, err
	}

	result, err := Extract(page)
	if err != nil {
		return nil, err
	}
	result.URL = url

	log.ForContext(ctx).WithFields(log.Fields{
		"url":   url,
		"brand": result.BrandName,
		"cards": len(result.Ads),
	}).Debug("Page scraped")

	return result, nil
}

// Render opens url in a new tab, submits the search form, scrolls until no
// more cards load and returns the final document
func (c *Client) Render(ctx context.Context, url string) (string, error) {
	c.startOnce.Do(func() {
		c.startErr = chromedp.Run(c.browserCtx)
	})
	if c.startErr != nil {
		return "", errors.Wrap(c.startErr, "failed to start browser")
	}

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()

	if c.opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, c.opts.Timeout)
		defer cancelTimeout()
	}

	// the tab descends from the browser, not from ctx
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var page string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(c.opts.SettleDelay),
		clickLastSubmit(),
		chromedp.Sleep(c.opts.SettleDelay),
		scrollToEnd(c.opts.ScrollDelay, c.opts.MaxScrolls),
		chromedp.OuterHTML("html", &page),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.Wrapf(err, "failed to render %s", url)
	}

	return page, nil
}

// Close shuts the browser down
func (c *Client) Close() {
	c.browserCancel()
	c.allocCancel()
}

// clickLastSubmit presses the last submit button, if any
func clickLastSubmit() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		var nodes []*cdp.Node
		if err := chromedp.Nodes(`button[type="submit"]`, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)).Do(ctx); err != nil {
			return nil
		}
		if len(nodes) == 0 {
			return nil
		}
		_ = chromedp.MouseClickNode(nodes[len(nodes)-1]).Do(ctx)
		return nil
	}
}

// scrollToEnd scrolls to the bottom until the page height stops growing
func scrollToEnd(delay time.Duration, maxScrolls int) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		previous := int64(-1)
		for i := 0; i < maxScrolls; i++ {
			if err := chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil).Do(ctx); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			var height int64
			if err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx); err != nil {
				return err
			}
			if height == previous {
				return nil
			}
			previous = height
		}

		log.L.WithField("max_scrolls", maxScrolls).Warn("Scroll limit reached before the page stopped growing")
		return nil
	}
}
