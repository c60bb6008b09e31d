// Package timeouts holds the deadlines handlers put on backend and
// database work.
//
//   - Ping: health checks
//   - Short: one record read or a single write
//   - Medium: list pages and the approval snapshot
//   - Long: approval cascades and other multi-call writes
//   - Batch: the roster export, which resolves a room for every resident
//   - Login: the sign-in call, raced against the login page
package timeouts

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Config holds one duration per kind. Zero fields keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
	Login  time.Duration
}

// Defaults is the configuration in effect before Configure is called.
var Defaults = Config{
	Ping:   2 * time.Second,
	Short:  5 * time.Second,
	Medium: 10 * time.Second,
	Long:   30 * time.Second,
	Batch:  60 * time.Second,
	Login:  6 * time.Second,
}

var current atomic.Pointer[Config]

func init() { Reset() }

func load() *Config { return current.Load() }

func Ping() time.Duration   { return load().Ping }
func Short() time.Duration  { return load().Short }
func Medium() time.Duration { return load().Medium }
func Long() time.Duration   { return load().Long }
func Batch() time.Duration  { return load().Batch }
func Login() time.Duration  { return load().Login }

// Configure overlays the non-zero fields of cfg on the current values.
// Call it from Startup, before any handler runs.
func Configure(cfg Config) {
	next := *load()
	pick := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	pick(&next.Ping, cfg.Ping)
	pick(&next.Short, cfg.Short)
	pick(&next.Medium, cfg.Medium)
	pick(&next.Long, cfg.Long)
	pick(&next.Batch, cfg.Batch)
	pick(&next.Login, cfg.Login)
	current.Store(&next)
}

// Reset restores Defaults.
func Reset() {
	d := Defaults
	current.Store(&d)
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline, rather than the caller, ended the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
