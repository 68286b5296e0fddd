package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rpgo/payoff-planner/internal/calculation"
	"github.com/rpgo/payoff-planner/internal/config"
	"github.com/rpgo/payoff-planner/internal/store"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore builds the configured scenario store. The returned closer
// releases any connection the backend holds.
func openStore(ctx context.Context, cfg config.StoreSettings) (store.Store, io.Closer, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemoryStore(store.Options{}), nopCloser{}, nil
	case "file":
		s, err := store.NewFileStore(cfg.Dir, store.Options{})
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case "redis":
		s := store.NewRedisStore(cfg.RedisAddr, store.Options{})
		return s, s, nil
	case "postgres":
		s, err := store.OpenPostgresStore(ctx, cfg.PostgresDSN, store.Options{})
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// openCache returns nil when caching is disabled
func openCache(cfg config.CacheSettings) (calculation.ResultCache, io.Closer) {
	if !cfg.Enabled {
		return nil, nopCloser{}
	}
	if cfg.RedisAddr == "" {
		return calculation.NewMemoryCache(), nopCloser{}
	}
	c := calculation.NewRedisCache(cfg.RedisAddr, time.Duration(cfg.TTLSeconds)*time.Second)
	return c, c
}
