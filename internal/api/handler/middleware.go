package handler

import (
	"errors"

	"stampbook/internal/interfaces"
	"stampbook/internal/pkg/limiter"
	"stampbook/internal/services"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

// RateLimit throttles per client IP. Without a configured limiter requests pass through.
func RateLimit(container *do.Injector) echo.MiddlewareFunc {
	l, err := do.Invoke[interfaces.Limiter](container)
	if err != nil {
		l = nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			err := l.Allow(ctx, services.LimitKeyUserCommand("ip:"+c.RealIP()), redis_rate.PerMinute(services.DEFAULT_RATE_LIMIT_PER_MINUTE*3))
			if errors.Is(err, limiter.ErrRateLimited) {
				return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
			}
			return next(c)
		}
	}
}
