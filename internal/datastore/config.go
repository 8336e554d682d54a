package datastore

import (
	"context"

	"github.com/uptrace/bun"
	"stampbook/internal/models"
)

func CreateTableConfig(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*models.Config)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return err
	}

	_, err = db.NewRaw(`
		alter table "config"
			add if not exists description varchar;`).Exec(ctx)
	return err
}

// InsertConfigs keeps values already present so operators' edits survive re-seeding.
func InsertConfigs(ctx context.Context, db bun.IDB, configs []*models.Config) error {
	if len(configs) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&configs).On("CONFLICT (key) DO NOTHING").Exec(ctx)
	return err
}

func GetConfigByKey(ctx context.Context, db bun.IDB, key string) (*models.Config, error) {
	var config models.Config
	err := db.NewSelect().Model(&config).Where("key = ?", key).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func EditConfig(ctx context.Context, db bun.IDB, config *models.Config) (*models.Config, error) {
	_, err := db.NewUpdate().Model(config).Column("value").WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}

	return config, nil
}
