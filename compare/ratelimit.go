package compare

import (
	"context"
	"sync"

	"github.com/fwojciec/visreg"
	"golang.org/x/time/rate"
)

var _ visreg.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces captures per host. Captures run sequentially,
// but source and target usually live on different hosts; giving each
// host its own token bucket keeps one slow host from throttling the
// other. Hosts are tracked lazily and the first request to a host is
// admitted immediately.
type DomainLimiter struct {
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second per host, with no bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limit: rate.Limit(rps),
		hosts: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the host's rate limit admits a request, or the
// context is canceled.
func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.limiterFor(domain).Wait(ctx)
}

func (l *DomainLimiter) limiterFor(domain string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim := l.hosts[domain]
	if lim == nil {
		lim = rate.NewLimiter(l.limit, 1)
		l.hosts[domain] = lim
	}
	return lim
}
