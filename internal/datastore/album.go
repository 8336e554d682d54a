package datastore

import (
	"context"
	"time"

	"stampbook/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableAlbum(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.AlbumEntry)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.AlbumEntry)(nil)).Index("index_sign_album_group_collected").IfNotExists().Column("group_id", "collected").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

// UpsertAlbumEntry marks the stamp collected, inserting the row the first time.
func UpsertAlbumEntry(ctx context.Context, db bun.IDB, groupID, userID, stampID string, at time.Time) error {
	entry := &models.AlbumEntry{
		GroupID:     groupID,
		UserID:      userID,
		StampID:     stampID,
		Collected:   true,
		CollectedAt: at,
	}

	_, err := db.NewInsert().Model(entry).
		On("CONFLICT (group_id, user_id, stamp_id) DO UPDATE").
		Set("collected = EXCLUDED.collected").
		Exec(ctx)
	return err
}

// GetGroupCollectCounts orders collectors by number of collected stamps, ties by user id.
func GetGroupCollectCounts(ctx context.Context, db bun.IDB, groupID string) ([]*models.CollectCount, error) {
	var counts []*models.CollectCount
	err := db.NewSelect().
		Model((*models.AlbumEntry)(nil)).
		ColumnExpr("user_id").
		ColumnExpr("count(*) AS stamps").
		Where("group_id = ?", groupID).
		Where("collected = ?", true).
		Group("user_id").
		OrderExpr("stamps DESC").
		OrderExpr("user_id ASC").
		Scan(ctx, &counts)
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func GetCollectedStampIDs(ctx context.Context, db bun.IDB, groupID, userID string) ([]string, error) {
	stampIDs := make([]string, 0)
	err := db.NewSelect().
		Model((*models.AlbumEntry)(nil)).
		Column("stamp_id").
		Where("group_id = ?", groupID).
		Where("user_id = ?", userID).
		Where("collected = ?", true).
		Order("stamp_id ASC").
		Scan(ctx, &stampIDs)
	if err != nil {
		return nil, err
	}

	return stampIDs, nil
}
