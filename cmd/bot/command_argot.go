package main

import (
	"context"
	"errors"

	"stampbook/internal/services"

	"github.com/samber/do"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// commandArgot sends back the hidden content named name of the replied-to message.
func commandArgot(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		msg := c.Message()
		if msg == nil || msg.ReplyTo == nil {
			return c.Reply(textArgotUsage)
		}

		container, err := getContextContainer(c)
		if err != nil {
			return err
		}

		serviceArgot, err := do.Invoke[*services.ServiceArgot](container)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		argot, err := serviceArgot.Get(ctx, msg.Chat.ID, msg.ReplyTo.ID, name)
		if errors.Is(err, services.ErrArgotNotFound) {
			return c.Reply(textArgotExpired)
		}
		if err != nil {
			getContextLogger(c).Error("get argot", zap.String("name", name), zap.Error(err))
			return c.Reply(textFailure)
		}

		return c.Reply(&tele.Photo{File: tele.FromDisk(argot.Content)})
	}
}
