package main

import (
	"fmt"

	"go.uber.org/zap"

	"restobrowse/internal/api"
	"restobrowse/internal/catalog"
	"restobrowse/internal/logging"
	"restobrowse/internal/store"
)

// session bundles what the commands need to reach the directory.
type session struct {
	client  *api.Client
	cache   *store.Cache
	catalog *catalog.Catalog
}

// openSession builds the API client and, when enabled, the offline cache.
func openSession() (*session, error) {
	client, err := api.NewClient(api.Options{
		BaseURL:     cfg.API.BaseURL,
		MediaURL:    cfg.API.MediaURL,
		Placeholder: cfg.API.Placeholder,
		Timeout:     cfg.GetTimeout(),
		UserAgent:   cfg.API.UserAgent,
		Logger:      logging.Get(logging.CategoryAPI),
	})
	if err != nil {
		return nil, err
	}

	s := &session{client: client}
	opts := []catalog.Option{
		catalog.WithOffline(offline),
		catalog.WithLogger(logging.Get(logging.CategoryStore)),
	}
	if cfg.Cache.Enabled {
		s.cache, err = store.Open(cfg.Cache.Path, store.WithLogger(logging.Get(logging.CategoryStore)))
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		opts = append(opts, catalog.WithCache(s.cache))
	} else if offline {
		return nil, fmt.Errorf("--offline needs the cache enabled")
	}
	s.catalog = catalog.New(client, opts...)
	return s, nil
}

func (s *session) Close() {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logging.Get(logging.CategoryStore).Warn("failed to close cache", zap.Error(err))
		}
	}
}
