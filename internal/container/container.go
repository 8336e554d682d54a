package container

import (
	"database/sql"
	"os"
	"strconv"
	"time"

	"stampbook/internal/datastore"
	"stampbook/internal/interfaces"
	"stampbook/internal/pkg"
	"stampbook/internal/pkg/caching"
	"stampbook/internal/pkg/limiter"
	"stampbook/internal/pkg/locker"
	"stampbook/internal/pkg/logger"
	"stampbook/internal/render"
	"stampbook/internal/services"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/hiendaovinh/toolkit/pkg/db"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// optionalEnvs are read on top of the required ones so every service sees one map.
var optionalEnvs = []string{
	"DB_DSN",
	"DB_PASSWORD",
	"DB_DSN_READONLY",
	"DB_PASSWORD_READONLY",
	"STAMP_DIR",
	"DRAW_CONFIG",
	"BACKGROUND_API",
	"BACKGROUND_DIR",
	"BACKGROUND_CACHE_SIZE",
	"HITOKOTO_API",
	"FONT_FILE",
	"FONT_SIZE",
	"SIGN_TIMEZONE",
	"API_MODE",
	"API_ORIGINS",
}

func NewContainer(vs map[string]string) *do.Injector {
	injector := do.New()

	for _, key := range optionalEnvs {
		if _, ok := vs[key]; !ok {
			vs[key] = os.Getenv(key)
		}
	}
	if vs["STAMP_DIR"] == "" {
		vs["STAMP_DIR"] = services.DEFAULT_STAMP_DIR
	}
	if vs["API_MODE"] == "" {
		vs["API_MODE"] = "production"
	}
	if vs["API_ORIGINS"] == "" {
		vs["API_ORIGINS"] = "*"
	}

	do.ProvideNamedValue(injector, "envs", vs)

	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		return logger.FromEnv()
	})

	do.Provide(injector, func(i *do.Injector) (*bun.DB, error) {
		return openDB(vs["DB_DSN"], vs["DB_PASSWORD"]), nil
	})

	do.ProvideNamed(injector, "db-readonly", func(i *do.Injector) (*bun.DB, error) {
		if vs["DB_DSN_READONLY"] == "" {
			return do.Invoke[*bun.DB](i)
		}
		return openDB(vs["DB_DSN_READONLY"], vs["DB_PASSWORD_READONLY"]), nil
	})

	do.ProvideNamed(injector, "redis-db", func(i *do.Injector) (redis.UniversalClient, error) {
		return redisClient("CLUSTER_REDIS_DB", "REDIS_DB")
	})

	do.ProvideNamed(injector, "redis-cache", func(i *do.Injector) (redis.UniversalClient, error) {
		return redisClient("CLUSTER_REDIS_CACHE", "REDIS_CACHE")
	})

	do.ProvideNamed(injector, "redis-limiter", func(i *do.Injector) (redis.UniversalClient, error) {
		return redisClient("CLUSTER_REDIS_LIMITER", "REDIS_LIMITER")
	})

	do.ProvideNamed(injector, "redis-mutex", func(i *do.Injector) (redis.UniversalClient, error) {
		return redisClient("CLUSTER_REDIS_MUTEX", "REDIS_MUTEX")
	})

	do.Provide(injector, func(i *do.Injector) (caching.Cache, error) {
		if !redisConfigured("CLUSTER_REDIS_CACHE", "REDIS_CACHE") {
			return caching.NewMemoryCache(), nil
		}

		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-cache")
		if err != nil {
			return nil, err
		}

		return caching.NewCacheRedis(dbRedis, true)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Limiter, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-limiter")
		if err != nil {
			return nil, err
		}

		return limiter.NewLimiter(dbRedis)
	})

	do.Provide(injector, func(i *do.Injector) (*redsync.Redsync, error) {
		dbRedis, err := do.InvokeNamed[redis.UniversalClient](i, "redis-mutex")
		if err != nil {
			return nil, err
		}

		pool := goredis.NewPool(dbRedis)
		return redsync.New(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.Locker, error) {
		if !redisConfigured("CLUSTER_REDIS_MUTEX", "REDIS_MUTEX") {
			return locker.NewLocal(), nil
		}

		rs, err := do.Invoke[*redsync.Redsync](i)
		if err != nil {
			return nil, err
		}

		return locker.NewRedsync(rs, services.SIGN_LOCK_EXPIRY, services.SIGN_LOCK_TRIES), nil
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.SignRepository, error) {
		postgresDB, err := do.Invoke[*bun.DB](i)
		if err != nil {
			return nil, err
		}

		return datastore.NewSignRepository(postgresDB), nil
	})

	do.ProvideNamed(injector, "sign-location", func(i *do.Injector) (*time.Location, error) {
		return pkg.LoadLocation(vs["SIGN_TIMEZONE"])
	})

	do.Provide(injector, func(i *do.Injector) (*services.DrawConfig, error) {
		return services.LoadDrawConfig(vs["DRAW_CONFIG"], vs["STAMP_DIR"])
	})

	do.Provide(injector, func(i *do.Injector) (services.Drawer, error) {
		return services.NewServiceDraw(i)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceBackground, error) {
		return services.NewServiceBackground(i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.BackgroundProvider, error) {
		return do.Invoke[*services.ServiceBackground](i)
	})

	do.Provide(injector, func(i *do.Injector) (interfaces.QuoteProvider, error) {
		return services.NewServiceHitokoto(i)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceConfig, error) {
		return services.NewServiceConfig(i)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceAlbum, error) {
		return services.NewServiceAlbum(i)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceSign, error) {
		return services.NewServiceSign(i)
	})

	do.Provide(injector, func(i *do.Injector) (*services.ServiceArgot, error) {
		return services.NewServiceArgot(i)
	})

	do.Provide(injector, func(i *do.Injector) (*render.Renderer, error) {
		renderer := render.New()
		if vs["FONT_FILE"] == "" {
			return renderer, nil
		}

		size, _ := strconv.ParseFloat(vs["FONT_SIZE"], 64)
		face, err := render.LoadFace(vs["FONT_FILE"], size)
		if err != nil {
			return nil, err
		}
		renderer.Face = face
		return renderer, nil
	})

	return injector
}

func openDB(dsn string, password string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithPassword(password),
	))

	return bun.NewDB(sqldb, pgdialect.New())
}

func redisConfigured(clusterEnv string, urlEnv string) bool {
	return os.Getenv(clusterEnv) != "" || os.Getenv(urlEnv) != ""
}

func redisClient(clusterEnv string, urlEnv string) (redis.UniversalClient, error) {
	clusterURL := os.Getenv(clusterEnv)
	if clusterURL != "" {
		clusterOpts, err := redis.ParseClusterURL(clusterURL)
		if err != nil {
			return nil, err
		}
		return redis.NewClusterClient(clusterOpts), nil
	}

	return db.InitRedis(&db.RedisConfig{
		URL: os.Getenv(urlEnv),
	})
}
