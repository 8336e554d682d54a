package main

import (
	"bytes"
	"context"
	"strconv"

	"stampbook/internal/render"
	"stampbook/internal/services"

	"github.com/samber/do"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// mentionedUser is the user picked by a text mention, or the author of the replied-to message.
func mentionedUser(msg *tele.Message) *tele.User {
	if msg == nil {
		return nil
	}
	for _, entity := range msg.Entities {
		if entity.Type == tele.EntityTMention && entity.User != nil {
			return entity.User
		}
	}
	if msg.ReplyTo != nil && msg.ReplyTo.Sender != nil && !msg.ReplyTo.Sender.IsBot {
		return msg.ReplyTo.Sender
	}
	return nil
}

func commandAlbum(c tele.Context) error {
	if c.Sender() == nil || c.Chat() == nil {
		return nil
	}

	container, err := getContextContainer(c)
	if err != nil {
		return err
	}
	logger := getContextLogger(c).With(
		zap.Int64("chat_id", c.Chat().ID),
		zap.Int64("sender_id", c.Sender().ID),
	)

	_, args := splitCommand(c.Text())
	mention := ""
	name := displayName(c.Sender())
	if user := mentionedUser(c.Message()); user != nil {
		mention = strconv.FormatInt(user.ID, 10)
		name = displayName(user)
	}

	target, err := services.ParseTarget(args, mention)
	if err != nil {
		return c.Reply(textAlbumUsage)
	}
	userID := services.ResolveTarget(strconv.FormatInt(c.Sender().ID, 10), target)
	if target != nil && mention == "" {
		name = userID
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	serviceAlbum, err := do.Invoke[*services.ServiceAlbum](container)
	if err != nil {
		return err
	}

	view, err := serviceAlbum.GetAlbum(ctx, strconv.FormatInt(c.Chat().ID, 10), userID)
	if err != nil {
		logger.Error("get album", zap.String("user_id", userID), zap.Error(err))
		return c.Reply(textFailure)
	}

	renderer, err := do.Invoke[*render.Renderer](container)
	if err != nil {
		return err
	}

	caption := albumCaption(name, view)
	b, err := renderer.Album(view, serviceAlbum.Pool())
	if err != nil {
		logger.Error("render album", zap.Error(err))
		return c.Reply(caption)
	}

	return c.Reply(&tele.Photo{
		File:    tele.FromReader(bytes.NewReader(b)),
		Caption: caption,
	})
}
