package datastore

import (
	"context"

	"stampbook/internal/models"

	"github.com/uptrace/bun"
)

func CreateTableSignUser(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.SignUser)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewCreateIndex().Model((*models.SignUser)(nil)).Index("index_sign_user_group_id").IfNotExists().Column("group_id").Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func FindSignUser(ctx context.Context, db bun.IDB, groupID, userID string, forUpdate bool) (*models.SignUser, error) {
	var user models.SignUser
	q := db.NewSelect().Model(&user).
		Where("group_id = ?", groupID).
		Where("user_id = ?", userID)
	if forUpdate {
		q = q.For("UPDATE")
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return &user, nil
}

// InsertSignUser reports false when a row for the same (group, user) already exists.
func InsertSignUser(ctx context.Context, db bun.IDB, user *models.SignUser) (bool, error) {
	res, err := db.NewInsert().Model(user).On("CONFLICT (group_id, user_id) DO NOTHING").Exec(ctx)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func UpdateSignUser(ctx context.Context, db bun.IDB, user *models.SignUser) error {
	_, err := db.NewUpdate().Model(user).
		Column("affection", "last_sign", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}
