package services

import (
	"context"
	"strconv"
	"time"

	"stampbook/internal/datastore"
	"stampbook/internal/models"
	"stampbook/internal/pkg/caching"

	"github.com/samber/do"
	"github.com/uptrace/bun"
)

type ServiceConfig struct {
	container          *do.Injector
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
}

func NewServiceConfig(container *do.Injector) (*ServiceConfig, error) {
	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	return &ServiceConfig{container, readonlyPostgresDB, cache}, nil
}

func (service *ServiceConfig) GetStringConfig(ctx context.Context, key string, defaultValue string) (string, error) {
	callback := func() (string, error) {
		config, err := datastore.GetConfigByKey(ctx, service.readonlyPostgresDB, key)
		if err != nil {
			return defaultValue, err
		}
		return config.Value, nil
	}

	value, err := caching.UseCache(ctx, service.cache, DBKeyConfig(key), CACHE_TTL_5_MINS, callback)
	if err != nil {
		return defaultValue, err
	}

	return value, nil
}

func (service *ServiceConfig) GetIntConfig(ctx context.Context, key string, defaultValue int) (int, error) {
	value, err := service.GetStringConfig(ctx, key, "")
	if err != nil {
		return defaultValue, err
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, err
	}
	return intValue, nil
}

// GetSecondsConfig reads an integer config as a number of seconds.
func (service *ServiceConfig) GetSecondsConfig(ctx context.Context, key string, defaultValue int) (time.Duration, error) {
	seconds, err := service.GetIntConfig(ctx, key, defaultValue)
	return time.Duration(seconds) * time.Second, err
}

func (service *ServiceConfig) EditConfig(ctx context.Context, db *bun.DB, config *models.Config) (*models.Config, error) {
	config, err := datastore.EditConfig(ctx, db, config)
	if err != nil {
		return nil, err
	}

	return config, caching.Invalidate(ctx, service.cache, DBKeyConfig(config.Key))
}

func DefaultConfigs() []*models.Config {
	return []*models.Config{
		{Key: CONFIG_ARGOT_EXPIRE_SECONDS, Value: strconv.Itoa(DEFAULT_ARGOT_EXPIRE_SECONDS), Description: "Lifetime of the hidden content attached to a sign-in reply"},
		{Key: CONFIG_RATE_LIMIT_PER_MINUTE, Value: strconv.Itoa(DEFAULT_RATE_LIMIT_PER_MINUTE), Description: "Commands a sender may issue per minute"},
		{Key: CONFIG_ALBUM_CACHE_TTL_SECONDS, Value: strconv.Itoa(DEFAULT_ALBUM_CACHE_TTL_SECONDS), Description: "Cache lifetime of album and rank queries"},
		{Key: CONFIG_CRONJOB_TIME_BACKGROUND, Value: DEFAULT_CRONJOB_TIME_BACKGROUND, Description: "Schedule of the background prefetch job"},
		{Key: CONFIG_BACKGROUND_PREFETCH_COUNT, Value: strconv.Itoa(DEFAULT_BACKGROUND_PREFETCH_COUNT), Description: "Backgrounds fetched per prefetch run"},
	}
}
