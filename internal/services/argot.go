package services

import (
	"context"
	"errors"
	"time"

	"stampbook/internal/datastore/redis_store"
	"stampbook/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// ServiceArgot attaches hidden content to sent messages. The content can be
// asked for by replying to the message until it expires.
type ServiceArgot struct {
	container *do.Injector
	redisDB   redis.UniversalClient
	config    *ServiceConfig
}

func NewServiceArgot(container *do.Injector) (*ServiceArgot, error) {
	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	config, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	return &ServiceArgot{container, redisDB, config}, nil
}

func (service *ServiceArgot) Expire(ctx context.Context) time.Duration {
	//nolint:errcheck
	expire, _ := service.config.GetSecondsConfig(ctx, CONFIG_ARGOT_EXPIRE_SECONDS, DEFAULT_ARGOT_EXPIRE_SECONDS)
	if expire <= 0 {
		expire = DEFAULT_ARGOT_EXPIRE_SECONDS * time.Second
	}
	return expire
}

func (service *ServiceArgot) Attach(ctx context.Context, chatID int64, messageID int, command string, contents map[string]string) error {
	now := time.Now()
	expiredAt := now.Add(service.Expire(ctx))

	var errs []error
	for name, content := range contents {
		if content == "" {
			continue
		}
		err := redis_store.SetArgot(ctx, service.redisDB, &models.Argot{
			Name:      name,
			Command:   command,
			ChatID:    chatID,
			MessageID: messageID,
			Content:   content,
			CreatedAt: now,
			ExpiredAt: expiredAt,
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Get returns ErrArgotNotFound once the content has expired.
func (service *ServiceArgot) Get(ctx context.Context, chatID int64, messageID int, name string) (*models.Argot, error) {
	argot, err := redis_store.GetArgot(ctx, service.redisDB, chatID, messageID, name)
	if errors.Is(err, redis.Nil) {
		return nil, ErrArgotNotFound
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	return argot, nil
}
