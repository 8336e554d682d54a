package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stampbook/internal/interfaces"
	"stampbook/internal/models"
	"stampbook/internal/pkg"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/samber/do"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Clock is injected so the calendar day can be pinned in tests.
type Clock func() time.Time

type ServiceSign struct {
	container  *do.Injector
	repo       interfaces.SignRepository
	locker     interfaces.Locker
	drawer     Drawer
	background interfaces.BackgroundProvider
	quote      interfaces.QuoteProvider
	album      *ServiceAlbum
	logger     *zap.Logger
	location   *time.Location
	now        Clock
}

func NewServiceSign(container *do.Injector) (*ServiceSign, error) {
	repo, err := do.Invoke[interfaces.SignRepository](container)
	if err != nil {
		return nil, err
	}

	locker, err := do.Invoke[interfaces.Locker](container)
	if err != nil {
		return nil, err
	}

	drawer, err := do.Invoke[Drawer](container)
	if err != nil {
		return nil, err
	}

	background, err := do.Invoke[interfaces.BackgroundProvider](container)
	if err != nil {
		return nil, err
	}

	quote, err := do.Invoke[interfaces.QuoteProvider](container)
	if err != nil {
		return nil, err
	}

	album, err := do.Invoke[*ServiceAlbum](container)
	if err != nil {
		return nil, err
	}

	logger, err := do.Invoke[*zap.Logger](container)
	if err != nil {
		logger = zap.NewNop()
	}

	location, err := do.InvokeNamed[*time.Location](container, "sign-location")
	if err != nil {
		location = time.Local
	}

	now, err := do.Invoke[Clock](container)
	if err != nil {
		now = time.Now
	}

	return &ServiceSign{
		container:  container,
		repo:       repo,
		locker:     locker,
		drawer:     drawer,
		background: background,
		quote:      quote,
		album:      album,
		logger:     logger,
		location:   location,
		now:        now,
	}, nil
}

func (service *ServiceSign) Today() time.Time {
	return pkg.DateOf(service.now().In(service.location))
}

// AttemptSignIn signs the user in for today. Being already signed in is reported
// through the outcome status, not as an error.
func (service *ServiceSign) AttemptSignIn(ctx context.Context, groupID string, userID string, userName string) (*models.SignOutcome, error) {
	if groupID == "" || userID == "" {
		return nil, errorx.Wrap(errors.New("group and user are required"), errorx.Validation)
	}
	userName = pkg.FirstNonEmpty(userName, models.DefaultUserName)

	result, err := service.draw(ctx)
	if err != nil {
		return nil, err
	}
	result.UserName = userName

	unlock, err := service.locker.Obtain(ctx, LockKeyUserSign(groupID, userID))
	if err != nil {
		service.logger.Warn("sign lock", zap.String("group_id", groupID), zap.String("user_id", userID), zap.Error(err))
		return nil, errorx.Wrap(ErrUserSignLock, errorx.Service)
	}
	defer func() {
		if err := unlock(); err != nil {
			service.logger.Warn("sign unlock", zap.String("group_id", groupID), zap.String("user_id", userID), zap.Error(err))
		}
	}()

	today := service.Today()
	var outcome *models.SignOutcome
	err = service.repo.RunInTx(ctx, func(ctx context.Context, repo interfaces.SignRepository) error {
		var err error
		outcome, err = service.signIn(ctx, repo, groupID, userID, today, result)
		return err
	})
	if err != nil {
		return nil, errorx.Wrap(err, errorx.Service)
	}

	if outcome.Succeeded() {
		if err := service.album.InvalidateGroup(ctx, groupID); err != nil {
			service.logger.Warn("invalidate album cache", zap.String("group_id", groupID), zap.Error(err))
		}
		service.logger.Info("signed in",
			zap.String("group_id", groupID),
			zap.String("user_id", userID),
			zap.Int("affection", result.Affection),
			zap.String("stamp_id", result.Stamp.ID),
			zap.Int("rank", result.Rank),
		)
	}

	return outcome, nil
}

func (service *ServiceSign) draw(ctx context.Context) (*models.SignResult, error) {
	draw := service.drawer.Draw()
	result := &models.SignResult{
		Affection: draw.Affection,
		Stamp:     draw.Stamp,
		Todo:      draw.Todo,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		background, err := service.background.Background(gctx)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		result.Background = background
		return nil
	})
	g.Go(func() error {
		hitokoto, err := service.quote.Hitokoto(gctx)
		if err != nil {
			return fmt.Errorf("hitokoto: %w", err)
		}
		result.Hitokoto = hitokoto
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

func (service *ServiceSign) signIn(ctx context.Context, repo interfaces.SignRepository, groupID string, userID string, today time.Time, result *models.SignResult) (*models.SignOutcome, error) {
	already := &models.SignOutcome{Status: models.SignStatusAlreadySigned, UserName: result.UserName}
	now := service.now()

	user, err := repo.FindUser(ctx, groupID, userID, true)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		user = &models.SignUser{
			GroupID:   groupID,
			UserID:    userID,
			Affection: result.Affection,
			LastSign:  today,
			CreatedAt: now,
			UpdatedAt: now,
		}
		inserted, err := repo.InsertUser(ctx, user)
		if err != nil {
			return nil, err
		}
		if !inserted {
			return already, nil
		}
	case err != nil:
		return nil, err
	case pkg.SameDate(user.LastSign, today):
		return already, nil
	default:
		user.Affection += result.Affection
		user.LastSign = today
		user.UpdatedAt = now
		if err := repo.UpdateUserSign(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := repo.CollectStamp(ctx, groupID, userID, result.Stamp.ID, now); err != nil {
		return nil, err
	}

	counts, err := repo.GroupCollectCounts(ctx, groupID)
	if err != nil {
		return nil, err
	}

	result.AffectionTotal = user.Affection
	result.Rank = RankOf(counts, userID)
	return &models.SignOutcome{Status: models.SignStatusSuccess, UserName: result.UserName, Result: result}, nil
}
