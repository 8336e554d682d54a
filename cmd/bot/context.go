package main

import (
	"fmt"

	"stampbook/internal/render"
	"stampbook/internal/services"

	"github.com/samber/do"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func getContextContainer(context tele.Context) (*do.Injector, error) {
	contextValue := context.Get(contextContainer)
	if contextValue == nil {
		return nil, fmt.Errorf("container not found")
	}

	result, ok := contextValue.(*do.Injector)
	if !ok {
		return nil, fmt.Errorf("container not valid")
	}

	return result, nil
}

func getContextLogger(context tele.Context) *zap.Logger {
	result, ok := context.Get(contextLogger).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return result
}

func preload(injector *do.Injector) error {
	if _, err := do.Invoke[*services.ServiceSign](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*services.ServiceArgot](injector); err != nil {
		return err
	}
	_, err := do.Invoke[*render.Renderer](injector)
	return err
}
