package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"stampbook/internal/models"
	"stampbook/internal/render"
	"stampbook/internal/services"

	"github.com/samber/do"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func displayName(user *tele.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName))
	if name == "" {
		name = user.Username
	}
	return name
}

func commandSign(c tele.Context) error {
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

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	serviceSign, err := do.Invoke[*services.ServiceSign](container)
	if err != nil {
		return err
	}

	outcome, err := serviceSign.AttemptSignIn(ctx, strconv.FormatInt(c.Chat().ID, 10), strconv.FormatInt(c.Sender().ID, 10), displayName(c.Sender()))
	if err != nil {
		logger.Error("sign in", zap.Error(err))
		return c.Reply(textFailure)
	}

	if !outcome.Succeeded() {
		return c.Reply(fmt.Sprintf(textAlreadySigned, outcome.UserName))
	}

	renderer, err := do.Invoke[*render.Renderer](container)
	if err != nil {
		return err
	}

	reply, err := signReply(renderer, outcome.Result)
	if err != nil {
		logger.Error("render sign", zap.Error(err))
	}

	msg, err := c.Bot().Send(c.Recipient(), reply, &tele.SendOptions{ReplyTo: c.Message()})
	if err != nil {
		return err
	}

	serviceArgot, err := do.Invoke[*services.ServiceArgot](container)
	if err != nil {
		return err
	}

	if err := serviceArgot.Attach(ctx, msg.Chat.ID, msg.ID, "sign", signArgots(outcome.Result)); err != nil {
		logger.Warn("attach argot", zap.Error(err))
	}
	return nil
}

// signReply is the rendered card, or the bare caption when rendering fails.
func signReply(renderer *render.Renderer, result *models.SignResult) (any, error) {
	b, err := renderer.Sign(result)
	if err != nil {
		return signCaption(result), err
	}

	return &tele.Photo{
		File:    tele.FromReader(bytes.NewReader(b)),
		Caption: signCaption(result),
	}, nil
}

func signArgots(result *models.SignResult) map[string]string {
	return map[string]string{
		models.ARGOT_BACKGROUND: result.Background,
		models.ARGOT_STAMP:      result.Stamp.Path,
	}
}
