// Package timeouts holds the per-request deadlines used by handlers.
package timeouts

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Config sets the deadlines. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration // health checks
	Short  time.Duration // single-document reads and writes
	Medium time.Duration // form actions that call an upstream (mail, Mailchimp, Sanity)
}

var (
	ping   atomic.Int64
	short  atomic.Int64
	medium atomic.Int64
)

func init() { Reset() }

// Ping returns the health check deadline.
func Ping() time.Duration { return time.Duration(ping.Load()) }

// Short returns the deadline for a single store call.
func Short() time.Duration { return time.Duration(short.Load()) }

// Medium returns the deadline for work that reaches an upstream service.
func Medium() time.Duration { return time.Duration(medium.Load()) }

// Configure overrides the defaults.
func Configure(cfg Config) {
	set(&ping, cfg.Ping)
	set(&short, cfg.Short)
	set(&medium, cfg.Medium)
}

// Reset restores the defaults.
func Reset() {
	ping.Store(int64(2 * time.Second))
	short.Store(int64(5 * time.Second))
	medium.Store(int64(10 * time.Second))
}

func set(v *atomic.Int64, d time.Duration) {
	if d > 0 {
		v.Store(int64(d))
	}
}

// WithTimeout derives a context with the deadline. The returned cancel logs
// a warning when the operation ran out of time.
func WithTimeout(parent context.Context, d time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, d)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", d))
		}
		cancel()
	}
}
