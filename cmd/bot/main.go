package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stampbook/internal/container"
	"stampbook/internal/models"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

const (
	contextContainer = "context-container"
	contextLogger    = "context-logger"

	commandTimeout = 30 * time.Second
)

func main() {
	app := &cli.App{
		Name: "bot-telegram",
		Commands: []*cli.Command{
			commandBot(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandBot() *cli.Command {
	return &cli.Command{
		Name:   "server",
		Usage:  "start the telegram bot",
		Action: action,
	}
}

func action(c *cli.Context) error {
	vs, err := env.EnvsRequired(
		"BOT_TOKEN",
		"DB_DSN",
	)
	if err != nil {
		return err
	}

	injector := container.NewContainer(vs)
	logger, err := do.Invoke[*zap.Logger](injector)
	if err != nil {
		return err
	}
	//nolint:errcheck
	defer logger.Sync()

	// fail fast on a broken stamp pool or draw config
	if err := preload(injector); err != nil {
		return err
	}

	pref := tele.Settings{
		Token:  vs["BOT_TOKEN"],
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Sender() != nil {
				fields = append(fields, zap.Int64("sender_id", c.Sender().ID))
			}
			logger.Error("telegram update", fields...)
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return err
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(contextContainer, injector)
			c.Set(contextLogger, logger)
			return next(c)
		}
	})

	// static commands
	b.Handle("/start", commandStart)
	b.Handle("/help", commandStart)

	// heavy commands - connect to database
	b.Handle("/sign", commandSign, rateLimit)
	b.Handle("/album", commandAlbum, rateLimit)
	b.Handle("/"+models.ARGOT_BACKGROUND, commandArgot(models.ARGOT_BACKGROUND), rateLimit)
	b.Handle("/"+models.ARGOT_STAMP, commandArgot(models.ARGOT_STAMP), rateLimit)

	// aliases typed as plain text
	b.Handle(tele.OnText, onText)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		b.Stop()
	}()

	logger.Info("bot started", zap.String("username", b.Me.Username))
	b.Start()
	return nil
}
