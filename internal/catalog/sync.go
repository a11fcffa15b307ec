package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncReport summarises a Sync run.
type SyncReport struct {
	Restaurants int
	Details     int
	Failed      map[string]error
}

// Sync fetches the collection and every restaurant's detail into the cache,
// at most concurrency details at a time. A failed detail is recorded in the
// report and does not stop the others; a failed list fetch aborts.
func (c *Catalog) Sync(ctx context.Context, concurrency int) (SyncReport, error) {
	if c.cache == nil {
		return SyncReport{}, fmt.Errorf("sync needs a cache")
	}
	if c.offline {
		return SyncReport{}, ErrOffline
	}
	if concurrency < 1 {
		concurrency = 1
	}

	rs, err := c.remote.List(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("sync: %w", err)
	}
	if err := c.cache.PutList(ctx, rs); err != nil {
		return SyncReport{}, fmt.Errorf("sync: %w", err)
	}

	report := SyncReport{Restaurants: len(rs), Failed: make(map[string]error)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, r := range rs {
		id := r.ID
		g.Go(func() error {
			d, err := c.remote.Detail(gctx, id)
			if err == nil {
				err = c.cache.PutRestaurant(gctx, d)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Warn("sync detail failed", zap.String("id", id), zap.Error(err))
				report.Failed[id] = err
				return nil
			}
			report.Details++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("sync interrupted: %w", err)
	}
	return report, nil
}
