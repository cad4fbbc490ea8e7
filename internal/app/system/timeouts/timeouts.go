// Package timeouts provides centralized timeout values for I/O started by
// handlers and background work.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: a single selection document read or write
//   - Long: connecting, index setup, and cleanup sweeps
//
// PDF export has its own bound (export_timeout) because it is dominated by
// browser rendering rather than storage.
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing  = 2 * time.Second
	DefaultShort = 5 * time.Second
	DefaultLong  = 30 * time.Second
)

// Environment variables read by ConfigureFromEnv.
const (
	EnvPing  = "TRAININGPLANNER_TIMEOUT_PING"
	EnvShort = "TRAININGPLANNER_TIMEOUT_SHORT"
	EnvLong  = "TRAININGPLANNER_TIMEOUT_LONG"
)

// mu protects all timeout values from concurrent access.
var mu sync.RWMutex

var (
	ping  = DefaultPing
	short = DefaultShort
	long  = DefaultLong
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Short returns the timeout for one selection read or write.
func Short() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return short
}

// Long returns the timeout for connecting, schema setup and sweeps.
func Long() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return long
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping  time.Duration
	Short time.Duration
	Long  time.Duration
}

// Configure sets custom timeout values. Zero values in the config are ignored,
// keeping the current (or default) values. Call it during startup before
// handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	short = DefaultShort
	long = DefaultLong
}

// ConfigureFromEnv reads TRAININGPLANNER_TIMEOUT_{PING,SHORT,LONG} as Go
// durations ("2s", "500ms"). Unset, unparsable or non-positive values are
// skipped. It returns how many values were applied.
func ConfigureFromEnv() int {
	var cfg Config
	configured := 0
	for _, e := range []struct {
		name string
		dst  *time.Duration
	}{
		{EnvPing, &cfg.Ping},
		{EnvShort, &cfg.Short},
		{EnvLong, &cfg.Long},
	} {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*e.dst = d
			configured++
		}
	}
	Configure(cfg)
	return configured
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Short: short, Long: long}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context ended because the deadline passed.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), b.log, "save selection")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
