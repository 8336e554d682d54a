package services

import (
	"errors"
	"fmt"
	"time"
)

var ErrUserSignLock = errors.New("user sign locked")
var ErrInvalidTarget = errors.New("invalid target")
var ErrArgotNotFound = errors.New("argot not found or expired")

const (
	CONFIG_ARGOT_EXPIRE_SECONDS      = "ARGOT_EXPIRE_SECONDS"
	CONFIG_RATE_LIMIT_PER_MINUTE     = "RATE_LIMIT_PER_MINUTE"
	CONFIG_ALBUM_CACHE_TTL_SECONDS   = "ALBUM_CACHE_TTL_SECONDS"
	CONFIG_CRONJOB_TIME_BACKGROUND   = "CRONJOB_TIME_BACKGROUND"
	CONFIG_BACKGROUND_PREFETCH_COUNT = "BACKGROUND_PREFETCH_COUNT"

	DEFAULT_ARGOT_EXPIRE_SECONDS      = 300
	DEFAULT_RATE_LIMIT_PER_MINUTE     = 20
	DEFAULT_ALBUM_CACHE_TTL_SECONDS   = 60
	DEFAULT_CRONJOB_TIME_BACKGROUND   = "@every 6h"
	DEFAULT_BACKGROUND_PREFETCH_COUNT = 5
	DEFAULT_BACKGROUND_CACHE_SIZE     = 50
	DEFAULT_LEADERBOARD_LIMIT         = 20

	SIGN_LOCK_EXPIRY = 10 * time.Second
	SIGN_LOCK_TRIES  = 32

	CACHE_TTL_1_MIN  = 1 * time.Minute
	CACHE_TTL_5_MINS = 5 * time.Minute
	CACHE_TTL_1_DAY  = 24 * time.Hour

	HTTP_TIMEOUT = 10 * time.Second

	DEFAULT_HITOKOTO_API   = "https://v1.hitokoto.cn/?encode=text"
	DEFAULT_BACKGROUND_API = "https://picsum.photos/1280/720"
	DEFAULT_BACKGROUND_DIR = "./data/backgrounds"
	DEFAULT_STAMP_DIR      = "./data/stamps"
)

func LockKeyUserSign(groupID string, userID string) string {
	return fmt.Sprintf("lock:sign:%s:%s", groupID, userID)
}

func LimitKeyUserCommand(userID string) string {
	return fmt.Sprintf("limit:command:%s", userID)
}

func DBKeyConfig(key string) string {
	return fmt.Sprintf("config:%s", key)
}

func DBKeyGroupVersion(groupID string) string {
	return fmt.Sprintf("album:version:%s", groupID)
}

func DBKeyGroupCollectCounts(groupID string, version string) string {
	return fmt.Sprintf("album:counts:%s:%s", groupID, version)
}

func DBKeyUserStamps(groupID string, userID string, version string) string {
	return fmt.Sprintf("album:stamps:%s:%s:%s", groupID, userID, version)
}
