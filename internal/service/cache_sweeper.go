package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CacheSweeper periodically purges expired L1 entries so keys that are never
// read again do not linger until the next lookup.
type CacheSweeper struct {
	cache    *ResponseCache
	interval time.Duration
	stopCh   chan struct{}
	log      zerolog.Logger
}

// NewCacheSweeper creates a sweeper that ticks every interval.
func NewCacheSweeper(cache *ResponseCache, interval time.Duration, log zerolog.Logger) *CacheSweeper {
	return &CacheSweeper{
		cache:    cache,
		interval: interval,
		stopCh:   make(chan struct{}),
		log:      log,
	}
}

// Start runs the sweep loop until ctx is cancelled or Stop is called.
func (w *CacheSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("cache-sweeper: starting")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.tick()
		case <-ctx.Done():
			w.log.Info().Msg("cache-sweeper: stopping (context cancelled)")
			return
		case <-w.stopCh:
			w.log.Info().Msg("cache-sweeper: stopping (stop signal)")
			return
		}
	}
}

// Stop signals the sweeper to stop.
func (w *CacheSweeper) Stop() {
	close(w.stopCh)
}

func (w *CacheSweeper) tick() {
	start := time.Now()
	removed := w.cache.Sweep()
	w.log.Debug().
		Int("removed", removed).
		Int("remaining", w.cache.Len()).
		Dur("duration_ms", time.Since(start)).
		Msg("cache-sweeper: tick complete")
}
