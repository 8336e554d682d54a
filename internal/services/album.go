package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stampbook/internal/interfaces"
	"stampbook/internal/models"
	"stampbook/internal/pkg/caching"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
)

type ServiceAlbum struct {
	container *do.Injector
	repo      interfaces.SignRepository
	cache     caching.Cache
	draw      *DrawConfig
	ttl       time.Duration
}

func NewServiceAlbum(container *do.Injector) (*ServiceAlbum, error) {
	repo, err := do.Invoke[interfaces.SignRepository](container)
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	draw, err := do.Invoke[*DrawConfig](container)
	if err != nil {
		return nil, err
	}

	ttl := CACHE_TTL_1_MIN
	if serviceConfig, err := do.Invoke[*ServiceConfig](container); err == nil {
		seconds, err := serviceConfig.GetIntConfig(context.Background(), CONFIG_ALBUM_CACHE_TTL_SECONDS, DEFAULT_ALBUM_CACHE_TTL_SECONDS)
		if err == nil && seconds > 0 {
			ttl = time.Duration(seconds) * time.Second
		}
	}

	return &ServiceAlbum{container, repo, cache, draw, ttl}, nil
}

// version names the current generation of a group's cached album entries.
// A reader that raced a sign-in stores its result under a retired generation.
func (service *ServiceAlbum) version(ctx context.Context, groupID string) string {
	var version string
	if err := service.cache.Get(ctx, DBKeyGroupVersion(groupID), &version); err != nil {
		return ""
	}
	return version
}

func (service *ServiceAlbum) GroupCollectCounts(ctx context.Context, groupID string) ([]*models.CollectCount, error) {
	key := DBKeyGroupCollectCounts(groupID, service.version(ctx, groupID))
	return caching.UseCache(ctx, service.cache, key, service.ttl, func() ([]*models.CollectCount, error) {
		return service.repo.GroupCollectCounts(ctx, groupID)
	})
}

// ComputeRank is the 1-based position of the user by collected stamps, 0 when the user has none.
func (service *ServiceAlbum) ComputeRank(ctx context.Context, groupID string, userID string) (int, error) {
	counts, err := service.GroupCollectCounts(ctx, groupID)
	if err != nil {
		return 0, errorx.Wrap(err, errorx.Service)
	}
	return RankOf(counts, userID), nil
}

func (service *ServiceAlbum) ListCollectedStamps(ctx context.Context, groupID string, userID string) ([]string, error) {
	key := DBKeyUserStamps(groupID, userID, service.version(ctx, groupID))
	stamps, err := caching.UseCache(ctx, service.cache, key, service.ttl, func() ([]string, error) {
		return service.repo.ListCollectedStamps(ctx, groupID, userID)
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}
	if stamps == nil {
		stamps = []string{}
	}
	return stamps, nil
}

func (service *ServiceAlbum) GetAlbum(ctx context.Context, groupID string, userID string) (*models.AlbumView, error) {
	rank, err := service.ComputeRank(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	stamps, err := service.ListCollectedStamps(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	return &models.AlbumView{
		GroupID: groupID,
		UserID:  userID,
		Rank:    rank,
		Stamps:  stamps,
		Total:   len(service.draw.Stamps),
	}, nil
}

func (service *ServiceAlbum) GetLeaderboard(ctx context.Context, groupID string, limit int) (*models.LeaderboardResponse, error) {
	counts, err := service.GroupCollectCounts(ctx, groupID)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if limit <= 0 || limit > len(counts) {
		limit = len(counts)
	}

	items := make([]*models.LeaderboardItem, 0, limit)
	for i, count := range counts[:limit] {
		items = append(items, &models.LeaderboardItem{
			UserID: count.UserID,
			Stamps: count.Stamps,
			Rank:   i + 1,
		})
	}
	return &models.LeaderboardResponse{GroupID: groupID, Leaderboard: items}, nil
}

func (service *ServiceAlbum) Pool() []models.Stamp {
	return service.draw.Stamps
}

// InvalidateGroup retires every cached album entry of the group. It must run
// after the change is committed.
func (service *ServiceAlbum) InvalidateGroup(ctx context.Context, groupID string) error {
	return service.cache.Set(ctx, DBKeyGroupVersion(groupID), uuid.NewString(), CACHE_TTL_1_DAY)
}

// RankOf expects counts ordered the way datastore.GetGroupCollectCounts returns them.
func RankOf(counts []*models.CollectCount, userID string) int {
	for i, count := range counts {
		if count.UserID == userID {
			return i + 1
		}
	}
	return 0
}

// ResolveTarget returns the id the album query is about.
func ResolveTarget(requesterID string, target *models.Target) string {
	if target == nil || target.UserID == "" {
		return requesterID
	}
	return target.UserID
}

// ParseTarget reads the free-text argument of an album command. A mention has
// already been resolved by the transport and takes precedence.
func ParseTarget(arg string, mention string) (*models.Target, error) {
	if mention != "" {
		return models.Mention(mention), nil
	}

	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return nil, errorx.Wrap(fmt.Errorf("%w: %q", ErrInvalidTarget, arg), errorx.Validation)
	}
	return models.RawID(strconv.FormatInt(id, 10)), nil
}
