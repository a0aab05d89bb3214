package root

import (
	"context"
	"fmt"

	"popcorn-watchlist-service/internal/config"
	"popcorn-watchlist-service/internal/repository"
	"popcorn-watchlist-service/internal/service"
	"popcorn-watchlist-service/internal/watched"
	"popcorn-watchlist-service/pkg/httpclient"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const detailCachePrefix = "popcorn:omdb:"

// app is the set of long-lived collaborators every command builds on
type app struct {
	cfg     *config.Config
	redis   *redis.Client // nil when redis is unavailable
	cache   *repository.Cache
	metrics *repository.Metrics
	omdb    *service.OMDBService
	list    *watched.List
}

// openApp connects the backends named by cfg. Redis is optional unless the
// watched list lives there: without it the detail cache and metrics are off.
func openApp(ctx context.Context, cfg *config.Config, fs afero.Fs) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.RedisURL != "" {
		client, err := repository.Connect(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			a.redis = client
			a.cache = repository.NewCache(client, detailCachePrefix, cfg.CacheTTLDetail)
			a.metrics = repository.NewMetrics(client)
		case cfg.WatchedStore == config.StoreRedis:
			return nil, fmt.Errorf("watched store: %w", err)
		default:
			log.Warn().Err(err).Msg("Redis unavailable, detail cache and metrics disabled")
		}
	}

	httpClient := httpclient.NewClient(httpclient.WithTimeout(cfg.HTTPTimeout))
	opts := []service.OMDBOption{service.WithSearchCacheTTL(cfg.CacheTTLSearch)}
	if a.cache != nil {
		opts = append(opts, service.WithDetailCache(a.cache, cfg.CacheTTLDetail))
	}
	a.omdb = service.NewOMDBService(httpClient, cfg.OMDBAPIKey, cfg.OMDBBaseURL, opts...)

	slot, err := a.watchedSlot(fs)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.list, err = watched.NewList(ctx, watched.NewSlotStore(slot))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load watched list: %w", err)
	}
	return a, nil
}

func (a *app) watchedSlot(fs afero.Fs) (repository.Slot, error) {
	switch a.cfg.WatchedStore {
	case config.StoreRedis:
		return repository.NewRedisSlot(a.redis, a.cfg.WatchedKey), nil
	case config.StoreFile:
		return repository.NewFileSlot(fs, a.cfg.WatchedFile), nil
	case config.StoreMemory:
		return repository.NewMemorySlot(), nil
	}
	return nil, fmt.Errorf("unknown watched store %q", a.cfg.WatchedStore)
}

// Close releases the redis connection
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
}
