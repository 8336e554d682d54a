package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode/utf8"

	"stampbook/internal/datastore/redis_store"

	"github.com/gojek/heimdall/v7"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

var fallbackHitokoto = []string{
	"今天也要元气满满哦。",
	"慢慢来，比较快。",
	"愿你被这个世界温柔以待。",
	"生活明朗，万物可爱。",
}

const maxHitokotoLength = 120

// ServiceHitokoto fetches a short quote. It never fails: when the API is
// unreachable it serves the last quote seen, then a built-in one.
type ServiceHitokoto struct {
	container *do.Injector
	client    heimdall.Client
	api       string
	redisDB   redis.UniversalClient
	logger    *zap.Logger
}

func NewServiceHitokoto(container *do.Injector) (*ServiceHitokoto, error) {
	vs, err := do.InvokeNamed[map[string]string](container, "envs")
	if err != nil {
		return nil, err
	}

	// the redis store is optional
	redisDB, _ := do.InvokeNamed[redis.UniversalClient](container, "redis-db")

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		logger = zap.NewNop()
	}

	api := vs["HITOKOTO_API"]
	if api == "" {
		api = DEFAULT_HITOKOTO_API
	}

	return &ServiceHitokoto{container, NewHTTPClient(HTTP_TIMEOUT, 1), api, redisDB, logger}, nil
}

func (service *ServiceHitokoto) Hitokoto(ctx context.Context) (string, error) {
	b, _, err := fetch(ctx, service.client, service.api)
	if err == nil {
		var text string
		text, err = parseHitokoto(b)
		if err == nil {
			if service.redisDB != nil {
				if err := redis_store.SetLastHitokoto(ctx, service.redisDB, text); err != nil {
					service.logger.Warn("store hitokoto", zap.Error(err))
				}
			}
			return text, nil
		}
	}
	service.logger.Warn("fetch hitokoto", zap.String("api", service.api), zap.Error(err))

	if service.redisDB != nil {
		if text, err := redis_store.GetLastHitokoto(ctx, service.redisDB); err == nil && text != "" {
			return text, nil
		}
	}

	return fallbackHitokoto[rand.Intn(len(fallbackHitokoto))], nil
}

func parseHitokoto(b []byte) (string, error) {
	text := strings.TrimSpace(string(b))
	switch {
	case text == "":
		return "", errors.New("hitokoto: empty body")
	case !utf8.ValidString(text):
		return "", errors.New("hitokoto: body is not utf-8")
	case utf8.RuneCountInString(text) > maxHitokotoLength:
		return "", fmt.Errorf("hitokoto: body longer than %d runes", maxHitokotoLength)
	}
	return text, nil
}
