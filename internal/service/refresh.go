package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CartCounter reports the number of units in the current cart.
type CartCounter interface {
	Count(ctx context.Context) (int, error)
}

// StartCountRefresher re-reads the session and cart every interval and hands
// the unit count to onCount. It never writes. Failed reads are logged and the
// next tick tries again. The goroutine exits when ctx is done. A
// non-positive interval starts nothing.
func StartCountRefresher(
	ctx context.Context,
	cart CartCounter,
	interval time.Duration,
	onCount func(int),
	log *zap.Logger,
) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := cart.Count(ctx)
				if err != nil {
					log.Error("failed to refresh cart count", zap.Error(err))
					continue
				}
				onCount(n)
			}
		}
	}()
}
