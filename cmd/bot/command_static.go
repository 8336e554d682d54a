package main

import (
	"context"
	"fmt"

	"stampbook/internal/services"

	"github.com/samber/do"
	tele "gopkg.in/telebot.v3"
)

func commandStart(c tele.Context) error {
	minutes := services.DEFAULT_ARGOT_EXPIRE_SECONDS / 60
	if container, err := getContextContainer(c); err == nil {
		if serviceArgot, err := do.Invoke[*services.ServiceArgot](container); err == nil {
			minutes = int(serviceArgot.Expire(context.Background()).Minutes())
		}
	}

	return c.Send(fmt.Sprintf(textStart, minutes))
}
