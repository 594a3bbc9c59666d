// Package slog provides logging decorators for visreg services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/visreg"
)

// Ensure LoggingCapturer implements visreg.Capturer.
var _ visreg.Capturer = (*LoggingCapturer)(nil)

// LoggingCapturer wraps a Capturer with debug logging.
type LoggingCapturer struct {
	next   visreg.Capturer
	logger *slog.Logger
}

// NewLoggingCapturer creates a new LoggingCapturer.
func NewLoggingCapturer(next visreg.Capturer, logger *slog.Logger) *LoggingCapturer {
	return &LoggingCapturer{next: next, logger: logger}
}

// Capture logs the URL being captured and delegates to the wrapped
// capturer.
func (c *LoggingCapturer) Capture(ctx context.Context, url string) (data []byte, err error) {
	defer func(begin time.Time) {
		c.logger.Info("capture",
			"url", url,
			"bytes", len(data),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Capture(ctx, url)
}

// Close delegates to the wrapped capturer.
func (c *LoggingCapturer) Close() error {
	return c.next.Close()
}
