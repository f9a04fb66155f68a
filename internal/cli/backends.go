package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontomask/pkg/cache"
	"github.com/matzehuels/ontomask/pkg/config"
	"github.com/matzehuels/ontomask/pkg/store"
)

// openCache builds the cache backend selected by the configuration.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *log.Logger) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		logger.Debug("connecting to redis", "addr", cfg.Addr, "db", cfg.DB)
		return cache.NewRedisCache(ctx, cfg.Addr, cfg.DB, cfg.Prefix)
	default:
		return cache.NewFileCache(cfg.Dir)
	}
}

// openStore builds the variant store backend selected by the configuration.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (store.Store, error) {
	if cfg.Backend == "mongo" {
		logger.Debug("connecting to mongodb", "database", cfg.Database)
		return store.NewMongoStore(ctx, cfg.URI, cfg.Database)
	}
	return store.NewMemoryStore(), nil
}

// loadConfig loads the TOML configuration referenced by the --config flag.
func loadConfig(path *string) (config.Config, error) {
	p := ""
	if path != nil {
		p = *path
	}
	cfg, err := config.Load(p)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
