// Package catalog is the data source the browser screens and CLI commands
// read from: the live API, written through to the offline cache, with the
// cache as fallback when the API is unreachable.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"restobrowse/internal/api"
	"restobrowse/internal/store"
	"restobrowse/internal/types"
)

// ErrOffline is returned for operations that need the network while the
// catalog is in offline mode.
var ErrOffline = errors.New("offline mode: network disabled")

// Remote is the subset of the API client the catalog needs.
type Remote interface {
	List(ctx context.Context) ([]types.Restaurant, error)
	Search(ctx context.Context, term string) ([]types.Restaurant, error)
	Detail(ctx context.Context, id string) (types.Restaurant, error)
	PostReview(ctx context.Context, in types.ReviewInput) ([]types.Review, error)
}

// Stale describes data served from the cache instead of the network.
type Stale struct {
	CachedAt time.Time
	Cause    error
}

// Listing is the result of fetching the full collection.
type Listing struct {
	Restaurants []types.Restaurant
	Stale       *Stale
}

// Detail is the result of fetching one restaurant.
type Detail struct {
	Restaurant types.Restaurant
	Stale      *Stale
}

// Catalog combines the remote API and the optional cache.
type Catalog struct {
	remote  Remote
	cache   *store.Cache
	offline bool
	logger  *zap.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCache enables write-through caching and offline fallback.
func WithCache(c *store.Cache) Option {
	return func(cat *Catalog) { cat.cache = c }
}

// WithOffline serves reads from the cache only.
func WithOffline(offline bool) Option {
	return func(cat *Catalog) { cat.offline = offline }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cat *Catalog) { cat.logger = l }
}

// New creates a catalog over remote.
func New(remote Remote, opts ...Option) *Catalog {
	c := &Catalog{remote: remote, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Offline reports whether the catalog skips the network.
func (c *Catalog) Offline() bool { return c.offline }

// List returns the full collection. When the API fails with a retryable
// error and a cached copy exists, the copy is returned marked stale.
func (c *Catalog) List(ctx context.Context) (Listing, error) {
	if c.offline {
		return c.cachedList(ctx, ErrOffline)
	}
	rs, err := c.remote.List(ctx)
	if err != nil {
		if api.Retryable(err) {
			if l, cerr := c.cachedList(ctx, err); cerr == nil {
				return l, nil
			}
		}
		return Listing{}, err
	}
	if c.cache != nil {
		if err := c.cache.PutList(ctx, rs); err != nil {
			c.logger.Warn("failed to cache list", zap.Error(err))
		}
	}
	return Listing{Restaurants: rs}, nil
}

func (c *Catalog) cachedList(ctx context.Context, cause error) (Listing, error) {
	if c.cache == nil {
		return Listing{}, cause
	}
	rs, at, err := c.cache.List(ctx)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return Listing{}, cause
		}
		return Listing{}, fmt.Errorf("%w (cache: %v)", cause, err)
	}
	c.logger.Info("serving cached list", zap.Time("cached_at", at), zap.Error(cause))
	return Listing{Restaurants: rs, Stale: &Stale{CachedAt: at, Cause: cause}}, nil
}

// Search runs a server search. Offline, it filters the cached collection
// the way the server would.
func (c *Catalog) Search(ctx context.Context, term string) ([]types.Restaurant, error) {
	if c.offline {
		l, err := c.cachedList(ctx, ErrOffline)
		if err != nil {
			return nil, err
		}
		out := make([]types.Restaurant, 0)
		for _, r := range l.Restaurants {
			if r.Matches(term) {
				out = append(out, r)
			}
		}
		return out, nil
	}
	return c.remote.Search(ctx, term)
}

// Detail returns one restaurant, falling back to the cache like List.
func (c *Catalog) Detail(ctx context.Context, id string) (Detail, error) {
	if c.offline {
		return c.cachedDetail(ctx, id, ErrOffline)
	}
	r, err := c.remote.Detail(ctx, id)
	if err != nil {
		if api.Retryable(err) {
			if d, cerr := c.cachedDetail(ctx, id, err); cerr == nil {
				return d, nil
			}
		}
		return Detail{}, err
	}
	c.storeDetail(ctx, r)
	return Detail{Restaurant: r}, nil
}

func (c *Catalog) cachedDetail(ctx context.Context, id string, cause error) (Detail, error) {
	if c.cache == nil {
		return Detail{}, cause
	}
	r, at, err := c.cache.Restaurant(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return Detail{}, cause
		}
		return Detail{}, fmt.Errorf("%w (cache: %v)", cause, err)
	}
	c.logger.Info("serving cached restaurant", zap.String("id", id), zap.Time("cached_at", at), zap.Error(cause))
	return Detail{Restaurant: r, Stale: &Stale{CachedAt: at, Cause: cause}}, nil
}

func (c *Catalog) storeDetail(ctx context.Context, r types.Restaurant) {
	if c.cache == nil {
		return
	}
	if err := c.cache.PutRestaurant(ctx, r); err != nil {
		c.logger.Warn("failed to cache restaurant", zap.String("id", r.ID), zap.Error(err))
	}
}

// PostReview submits a review. Reviews are never queued offline. On success
// the cached detail, if any, gets the new review list.
func (c *Catalog) PostReview(ctx context.Context, in types.ReviewInput) ([]types.Review, error) {
	if c.offline {
		return nil, ErrOffline
	}
	reviews, err := c.remote.PostReview(ctx, in)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if r, _, err := c.cache.Restaurant(ctx, in.ID); err == nil {
			r.CustomerReviews = reviews
			c.storeDetail(ctx, r)
		}
	}
	return reviews, nil
}
