package services

import (
	"context"
	"testing"
	"time"

	"stampbook/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArgotService(t *testing.T, expireSeconds string) (*ServiceArgot, *miniredis.Miniredis) {
	t.Helper()
	config, mock := newConfigService(t)
	rows := sqlmock.NewRows([]string{"key", "value", "description"})
	if expireSeconds != "" {
		rows.AddRow(CONFIG_ARGOT_EXPIRE_SECONDS, expireSeconds, "")
	}
	mock.ExpectQuery(`SELECT .* FROM "config"`).WillReturnRows(rows)

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	injector := do.New()
	do.ProvideNamedValue[redis.UniversalClient](injector, "redis-db", client)
	do.ProvideValue(injector, config)

	service, err := NewServiceArgot(injector)
	require.NoError(t, err)
	return service, server
}

func TestServiceArgot_AttachAndExpire(t *testing.T) {
	service, server := newArgotService(t, "")
	ctx := context.Background()

	assert.Equal(t, DEFAULT_ARGOT_EXPIRE_SECONDS*time.Second, service.Expire(ctx))

	err := service.Attach(ctx, -1001, 42, "sign", map[string]string{
		models.ARGOT_BACKGROUND: "bg/1.png",
		models.ARGOT_STAMP:      "stamps/s3.png",
		"empty":                 "",
	})
	require.NoError(t, err)
	assert.Len(t, server.Keys(), 2)

	argot, err := service.Get(ctx, -1001, 42, models.ARGOT_BACKGROUND)
	require.NoError(t, err)
	assert.Equal(t, "bg/1.png", argot.Content)
	assert.Equal(t, "sign", argot.Command)
	assert.WithinDuration(t, argot.CreatedAt.Add(DEFAULT_ARGOT_EXPIRE_SECONDS*time.Second), argot.ExpiredAt, time.Millisecond)

	argot, err = service.Get(ctx, -1001, 42, models.ARGOT_STAMP)
	require.NoError(t, err)
	assert.Equal(t, "stamps/s3.png", argot.Content)

	_, err = service.Get(ctx, -1001, 42, "empty")
	assert.ErrorIs(t, err, ErrArgotNotFound)

	server.FastForward(DEFAULT_ARGOT_EXPIRE_SECONDS*time.Second - 10*time.Second)
	_, err = service.Get(ctx, -1001, 42, models.ARGOT_STAMP)
	assert.NoError(t, err)

	server.FastForward(11 * time.Second)
	_, err = service.Get(ctx, -1001, 42, models.ARGOT_BACKGROUND)
	assert.ErrorIs(t, err, ErrArgotNotFound)
	_, err = service.Get(ctx, -1001, 42, models.ARGOT_STAMP)
	assert.ErrorIs(t, err, ErrArgotNotFound)
}

func TestServiceArgot_ConfiguredExpire(t *testing.T) {
	service, server := newArgotService(t, "120")
	ctx := context.Background()

	require.NoError(t, service.Attach(ctx, 7, 1, "sign", map[string]string{models.ARGOT_STAMP: "s1"}))
	assert.Equal(t, 2*time.Minute, service.Expire(ctx))

	server.FastForward(2*time.Minute + time.Second)
	_, err := service.Get(ctx, 7, 1, models.ARGOT_STAMP)
	assert.ErrorIs(t, err, ErrArgotNotFound)
}
