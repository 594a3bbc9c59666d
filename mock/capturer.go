package mock

import (
	"context"

	"github.com/fwojciec/visreg"
)

var _ visreg.Capturer = (*Capturer)(nil)

// Capturer is a mock implementation of visreg.Capturer.
type Capturer struct {
	CaptureFn func(ctx context.Context, url string) ([]byte, error)
	CloseFn   func() error
}

func (c *Capturer) Capture(ctx context.Context, url string) ([]byte, error) {
	return c.CaptureFn(ctx, url)
}

func (c *Capturer) Close() error {
	if c.CloseFn == nil {
		return nil
	}
	return c.CloseFn()
}

var _ visreg.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of visreg.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
