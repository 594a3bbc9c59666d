package compare_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/visreg"
	"github.com/fwojciec/visreg/compare"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("implements visreg.DomainLimiter interface", func(t *testing.T) {
		t.Parallel()
		var _ visreg.DomainLimiter = compare.NewDomainLimiter(1)
	})

	t.Run("allows immediate request when under limit", func(t *testing.T) {
		t.Parallel()

		limiter := compare.NewDomainLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "first request should be immediate")
	})

	t.Run("rate limits requests to same domain", func(t *testing.T) {
		t.Parallel()

		limiter := compare.NewDomainLimiter(10) // 10 req/sec = 100ms between requests

		err := limiter.Wait(context.Background(), "example.com")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "should wait for rate limit")
	})

	t.Run("source and target hosts have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := compare.NewDomainLimiter(10)

		err := limiter.Wait(context.Background(), "prod.example.com")
		require.NoError(t, err)

		start := time.Now()
		err = limiter.Wait(context.Background(), "staging.example.com")
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Less(t, elapsed, 50*time.Millisecond, "different domain should not wait")
	})

	t.Run("concurrent waits on one host are safe", func(t *testing.T) {
		t.Parallel()

		limiter := compare.NewDomainLimiter(1000)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, limiter.Wait(context.Background(), "example.com"))
			}()
		}
		wg.Wait()
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := compare.NewDomainLimiter(1)

		err := limiter.Wait(context.Background(), "example.com")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err = limiter.Wait(ctx, "example.com")
		assert.Error(t, err, "should fail when context times out")
	})
}
