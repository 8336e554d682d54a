package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"stampbook/internal/container"
	"stampbook/internal/datastore"
	"stampbook/internal/models"
	"stampbook/internal/pkg/caching"
	"stampbook/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandConfigSet(),
			commandClearCache(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Description: "Create tables",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			for _, create := range []func(context.Context, *bun.DB) error{
				datastore.CreateTableSignUser,
				datastore.CreateTableAlbum,
				datastore.CreateTableConfig,
			} {
				if err := create(ctx, db); err != nil {
					return err
				}
			}

			log.Println("Migrate successfully")
			return nil
		},
	}
}

func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				return err
			}

			if err := datastore.InsertConfigs(ctx, db, services.DefaultConfigs()); err != nil {
				return err
			}

			log.Println("Migrate config successfully")
			return nil
		},
	}
}

func commandConfigSet() *cli.Command {
	return &cli.Command{
		Name:        "config-set",
		Description: "Update a config value and drop its cached copy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Required: true},
			&cli.StringFlag{Name: "value", Required: true},
		},
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired("DB_DSN")
			if err != nil {
				return err
			}

			injector := container.NewContainer(vs)
			serviceConfig, err := do.Invoke[*services.ServiceConfig](injector)
			if err != nil {
				return err
			}

			db, err := do.Invoke[*bun.DB](injector)
			if err != nil {
				return err
			}

			config, err := serviceConfig.EditConfig(context.Background(), db, &models.Config{
				Key:   c.String("key"),
				Value: c.String("value"),
			})
			if err != nil {
				return err
			}

			log.Printf("%s = %s\n", config.Key, config.Value)
			return nil
		},
	}
}

func commandClearCache() *cli.Command {
	return &cli.Command{
		Name:        "clear-cache",
		Description: "Drop cached album, rank and config entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pattern", Value: "*", Usage: "key pattern, e.g. album:counts:*"},
		},
		Action: func(c *cli.Context) error {
			vs, err := env.EnvsRequired("DB_DSN")
			if err != nil {
				return err
			}

			injector := container.NewContainer(vs)
			dbRedis, err := do.InvokeNamed[redis.UniversalClient](injector, "redis-cache")
			if err != nil {
				return err
			}

			if err := caching.DeleteKeys(context.Background(), dbRedis, c.String("pattern")); err != nil {
				return err
			}

			log.Println("Cache cleared:", c.String("pattern"))
			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
