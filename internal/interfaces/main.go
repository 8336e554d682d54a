package interfaces

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"

	"stampbook/internal/models"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// Locker hands out a mutual-exclusion lock per key; the returned func releases it.
type Locker interface {
	Obtain(ctx context.Context, key string) (func() error, error)
}

// SignRepository is the persistent store behind sign-in and album queries.
// FindUser returns sql.ErrNoRows when the row does not exist.
type SignRepository interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo SignRepository) error) error
	FindUser(ctx context.Context, groupID, userID string, forUpdate bool) (*models.SignUser, error)
	InsertUser(ctx context.Context, user *models.SignUser) (bool, error)
	UpdateUserSign(ctx context.Context, user *models.SignUser) error
	CollectStamp(ctx context.Context, groupID, userID, stampID string, at time.Time) error
	GroupCollectCounts(ctx context.Context, groupID string) ([]*models.CollectCount, error)
	ListCollectedStamps(ctx context.Context, groupID, userID string) ([]string, error)
}

type BackgroundProvider interface {
	Background(ctx context.Context) (string, error)
}

type QuoteProvider interface {
	Hitokoto(ctx context.Context) (string, error)
}
