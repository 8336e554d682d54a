package datastore

import (
	"context"
	"database/sql"
	"time"

	"stampbook/internal/interfaces"
	"stampbook/internal/models"

	"github.com/uptrace/bun"
)

// SignRepository implements interfaces.SignRepository on postgres.
type SignRepository struct {
	db  *bun.DB
	idb bun.IDB
}

func NewSignRepository(db *bun.DB) *SignRepository {
	return &SignRepository{db: db, idb: db}
}

func (r *SignRepository) RunInTx(ctx context.Context, fn func(ctx context.Context, repo interfaces.SignRepository) error) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &SignRepository{db: r.db, idb: tx})
	})
}

func (r *SignRepository) FindUser(ctx context.Context, groupID, userID string, forUpdate bool) (*models.SignUser, error) {
	return FindSignUser(ctx, r.idb, groupID, userID, forUpdate)
}

func (r *SignRepository) InsertUser(ctx context.Context, user *models.SignUser) (bool, error) {
	return InsertSignUser(ctx, r.idb, user)
}

func (r *SignRepository) UpdateUserSign(ctx context.Context, user *models.SignUser) error {
	return UpdateSignUser(ctx, r.idb, user)
}

func (r *SignRepository) CollectStamp(ctx context.Context, groupID, userID, stampID string, at time.Time) error {
	return UpsertAlbumEntry(ctx, r.idb, groupID, userID, stampID, at)
}

func (r *SignRepository) GroupCollectCounts(ctx context.Context, groupID string) ([]*models.CollectCount, error) {
	return GetGroupCollectCounts(ctx, r.idb, groupID)
}

func (r *SignRepository) ListCollectedStamps(ctx context.Context, groupID, userID string) ([]string, error) {
	return GetCollectedStampIDs(ctx, r.idb, groupID, userID)
}
