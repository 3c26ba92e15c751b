package orderpool

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// StartSizeWatchdog periodically reads the pool counts and warns when the total
// number of pending orders exceeds maxOrders. It blocks until ctx is done and
// returns an error only for invalid arguments.
func StartSizeWatchdog(ctx context.Context, log *zap.SugaredLogger, pool *Shared, interval time.Duration, maxOrders int) error {
	switch {
	case log == nil:
		return errors.New("invalid logger: nil")
	case pool == nil:
		return errors.New("invalid orderpool: nil")
	case interval <= 0:
		return errors.New("invalid interval: must be positive")
	case maxOrders <= 0:
		return errors.New("invalid max orders: must be positive")
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			txs, bundles := pool.ContentCount()
			if txs+bundles > maxOrders {
				log.Warnw("orderpool too large", "tx_count", txs, "bundle_count", bundles, "max_orders", maxOrders)
			}
		}
	}
}
