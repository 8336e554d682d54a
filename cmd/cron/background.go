package main

import (
	"context"
	"time"

	"stampbook/internal/services"

	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// BackgroundJob keeps the background directory stocked so sign-ins rarely wait on the image API.
type BackgroundJob struct {
	container *do.Injector
	logger    *zap.Logger
}

func NewBackgroundJob(container *do.Injector, logger *zap.Logger) *BackgroundJob {
	return &BackgroundJob{container, logger.With(zap.String("job", "background"))}
}

func (j *BackgroundJob) Start(cronRunner *cron.Cron) error {
	ctx := context.Background()
	serviceConfig, err := do.Invoke[*services.ServiceConfig](j.container)
	if err != nil {
		return err
	}

	timeline, err := serviceConfig.GetStringConfig(ctx, services.CONFIG_CRONJOB_TIME_BACKGROUND, services.DEFAULT_CRONJOB_TIME_BACKGROUND)
	if err != nil {
		j.logger.Warn("timeline config missing, using default", zap.Error(err))
	}
	if timeline == "" {
		timeline = services.DEFAULT_CRONJOB_TIME_BACKGROUND
	}

	_, err = cronRunner.AddFunc(timeline, j.runScheduledTask)
	if err != nil {
		return err
	}

	j.logger.Info("scheduled", zap.String("cron", timeline))
	go j.runScheduledTask()
	return nil
}

func (j *BackgroundJob) runScheduledTask() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	serviceBackground, err := do.Invoke[*services.ServiceBackground](j.container)
	if err != nil {
		j.logger.Error("background service", zap.Error(err))
		return
	}

	count := services.DEFAULT_BACKGROUND_PREFETCH_COUNT
	if serviceConfig, err := do.Invoke[*services.ServiceConfig](j.container); err == nil {
		//nolint:errcheck
		count, _ = serviceConfig.GetIntConfig(ctx, services.CONFIG_BACKGROUND_PREFETCH_COUNT, services.DEFAULT_BACKGROUND_PREFETCH_COUNT)
	}

	start := time.Now()
	fetched, err := serviceBackground.Refresh(ctx, count)
	if err != nil {
		j.logger.Warn("refresh backgrounds", zap.Int("fetched", fetched), zap.Error(err))
		return
	}
	j.logger.Info("backgrounds refreshed", zap.Int("fetched", fetched), zap.Duration("took", time.Since(start)))
}
