package main

import (
	"context"
	"errors"
	"strconv"

	"stampbook/internal/interfaces"
	"stampbook/internal/pkg/limiter"
	"stampbook/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/samber/do"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// rateLimit drops commands beyond the per-sender budget. A broken limiter lets everything through.
func rateLimit(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Sender() == nil {
			return nil
		}

		container, err := getContextContainer(c)
		if err != nil {
			return err
		}

		ctx := context.Background()
		logger := getContextLogger(c)

		perMinute := services.DEFAULT_RATE_LIMIT_PER_MINUTE
		if serviceConfig, err := do.Invoke[*services.ServiceConfig](container); err == nil {
			//nolint:errcheck
			perMinute, _ = serviceConfig.GetIntConfig(ctx, services.CONFIG_RATE_LIMIT_PER_MINUTE, services.DEFAULT_RATE_LIMIT_PER_MINUTE)
		}
		if perMinute <= 0 {
			return next(c)
		}

		l, err := do.Invoke[interfaces.Limiter](container)
		if err != nil {
			logger.Warn("limiter unavailable", zap.Error(err))
			return next(c)
		}

		err = l.Allow(ctx, services.LimitKeyUserCommand(strconv.FormatInt(c.Sender().ID, 10)), redis_rate.PerMinute(perMinute))
		if errors.Is(err, limiter.ErrRateLimited) {
			return c.Reply(textRateLimited)
		}
		if err != nil {
			logger.Warn("rate limit", zap.Error(err))
		}
		return next(c)
	}
}

// onText runs the command a plain-text alias stands for and ignores everything else.
func onText(c tele.Context) error {
	endpoint, _, ok := resolveAlias(c.Text())
	if !ok {
		return nil
	}

	switch endpoint {
	case "/sign":
		return rateLimit(commandSign)(c)
	case "/album":
		return rateLimit(commandAlbum)(c)
	}
	return nil
}
