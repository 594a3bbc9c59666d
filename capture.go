package visreg

import "context"

// Capturer produces full-page screenshots of rendered web pages.
// Implementations drive a real browser so that JavaScript-rendered and
// lazy-loaded content is included in the capture.
type Capturer interface {
	// Capture navigates to the URL, waits for the page to stabilize
	// (initial render, lazy-loaded content, layout reflow), and returns
	// the full-page screenshot as PNG bytes.
	//
	// Browser automation failures (navigation errors, detached sessions,
	// command timeouts) are returned with code EUNAVAILABLE so callers
	// can retry them.
	Capture(ctx context.Context, url string) ([]byte, error)

	// Close releases browser resources.
	// Must be called when the Capturer is no longer needed.
	Close() error
}

// DomainLimiter rate limits requests on a per-domain basis.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	Wait(ctx context.Context, domain string) error
}
