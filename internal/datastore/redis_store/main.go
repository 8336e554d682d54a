package redis_store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stampbook/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

func dbKeyArgot(chatID int64, messageID int, name string) string {
	return fmt.Sprintf("argot:%d:%d:%s", chatID, messageID, strings.ToLower(name))
}

func dbKeyHitokoto() string {
	return "hitokoto:last"
}

func SetArgot(ctx context.Context, cmd redis.Cmdable, v *models.Argot) error {
	if v.Name == "" || v.MessageID == 0 {
		return errors.New("invalid argot")
	}

	ttl := time.Until(v.ExpiredAt)
	if ttl <= 0 {
		return errors.New("argot already expired")
	}

	b, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}

	return cmd.Set(ctx, dbKeyArgot(v.ChatID, v.MessageID, v.Name), b, ttl).Err()
}

// GetArgot returns redis.Nil once the argot has expired.
func GetArgot(ctx context.Context, cmd redis.Cmdable, chatID int64, messageID int, name string) (*models.Argot, error) {
	b, err := cmd.Get(ctx, dbKeyArgot(chatID, messageID, name)).Bytes()
	if err != nil {
		return nil, err
	}

	var v models.Argot
	if err := msgpack.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func SetLastHitokoto(ctx context.Context, cmd redis.Cmdable, text string) error {
	return cmd.Set(ctx, dbKeyHitokoto(), text, 24*time.Hour).Err()
}

func GetLastHitokoto(ctx context.Context, cmd redis.Cmdable) (string, error) {
	return cmd.Get(ctx, dbKeyHitokoto()).Result()
}
