// Package rod provides a Chrome-based implementation of visreg.Capturer
// using browser automation.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/visreg"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultSettleDelay is how long a page is given to render and execute
// its initial JavaScript after navigation.
const DefaultSettleDelay = 3 * time.Second

// Scroll stabilization parameters. The increments and delays are tuned
// empirically so that scroll-triggered lazy loading has fired by the
// time the capture is taken.
const (
	scrollStep      = 400
	scrollStepDelay = 150 * time.Millisecond
	postCookieDelay = 1 * time.Second
	postReflowDelay = 500 * time.Millisecond
)

// userAgent pins a desktop Chrome UA so staging WAFs serve the same
// markup they serve real visitors.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122 Safari/537.36"

// Ensure Capturer implements visreg.Capturer at compile time.
var _ visreg.Capturer = (*Capturer)(nil)

// Capturer produces full-page screenshots using a single shared Chrome
// session. One Capturer drives one browser; captures are expected to be
// sequential since concurrent navigations cannot share a session safely.
type Capturer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	headless bool
	settle   time.Duration
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithHeadless controls whether the browser runs without a visible
// surface. Defaults to true.
func WithHeadless(headless bool) Option {
	return func(c *Capturer) {
		c.headless = headless
	}
}

// WithSettleDelay sets the post-navigation settle delay.
// Defaults to DefaultSettleDelay (3s).
func WithSettleDelay(d time.Duration) Option {
	return func(c *Capturer) {
		c.settle = d
	}
}

// NewCapturer launches a Chrome browser configured for screenshot
// capture of staging sites (certificate errors ignored, fixed 1920x1080
// window). Close must be called when the Capturer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewCapturer(opts ...Option) (*Capturer, error) {
	c := &Capturer{
		headless: true,
		settle:   DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	lnchr := launcher.New().
		Set("ignore-certificate-errors").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("window-size", "1920,1080").
		Set("user-agent", userAgent).
		Leakless(true).
		Headless(c.headless)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	c.browser = browser
	c.launcher = lnchr
	return c, nil
}

// Capture navigates to the URL, stabilizes the page, and returns a
// full-page PNG. Automation failures carry code EUNAVAILABLE.
func (c *Capturer) Capture(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "creating page for %s: %v", url, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "navigating to %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "loading %s: %v", url, err)
	}
	if err := sleep(ctx, c.settle); err != nil {
		return nil, err
	}

	// Best effort; sites without a consent overlay just proceed.
	c.dismissCookieBanner(ctx, page)

	if err := c.stabilize(ctx, page); err != nil {
		return nil, err
	}

	bin, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:                proto.PageCaptureScreenshotFormatPng,
		FromSurface:           true,
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, visreg.Errorf(visreg.EUNAVAILABLE, "capturing %s: %v", url, err)
	}

	return bin, nil
}

// dismissCookieBanner clicks a button whose text matches "accept"
// case-insensitively. The settle delay before this call is the window a
// consent overlay has to render, so the lookup itself does not poll and
// banner-less pages pay no extra cost. This is an English-text heuristic
// and inherently site-specific; absence and click failure are both
// silently ignored.
func (c *Capturer) dismissCookieBanner(ctx context.Context, page *rod.Page) {
	el, err := page.Sleeper(rod.NotFoundSleeper).ElementR("button", "/accept/i")
	if err != nil {
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return
	}
	_ = sleep(ctx, postCookieDelay)
}

// stabilize scrolls through the full document to trigger lazy loading,
// then returns to the top and forces a reflow so sticky elements settle
// into their top-of-page state before capture.
func (c *Capturer) stabilize(ctx context.Context, page *rod.Page) error {
	res, err := page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return visreg.Errorf(visreg.EUNAVAILABLE, "reading document height: %v", err)
	}
	height := res.Value.Int()

	for y := 0; y < height; y += scrollStep {
		if _, err := page.Eval(`(y) => window.scrollTo(0, y)`, y); err != nil {
			return visreg.Errorf(visreg.EUNAVAILABLE, "scrolling: %v", err)
		}
		if err := sleep(ctx, scrollStepDelay); err != nil {
			return err
		}
	}

	if _, err := page.Eval(`() => window.scrollTo(0, 0)`); err != nil {
		return visreg.Errorf(visreg.EUNAVAILABLE, "scrolling to top: %v", err)
	}
	if _, err := page.Eval(`() => window.dispatchEvent(new Event('resize'))`); err != nil {
		return visreg.Errorf(visreg.EUNAVAILABLE, "dispatching resize: %v", err)
	}
	return sleep(ctx, postReflowDelay)
}

// Close releases browser resources and kills the launched process.
func (c *Capturer) Close() error {
	err := c.browser.Close()
	c.launcher.Kill()
	return err
}

// sleep blocks for d or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
