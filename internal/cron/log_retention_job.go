package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/tradevista/websights-backend/pkg/logger"
)

const logRetentionDays = 90

type logRetentionRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type LogRetentionJobParams struct {
	Logger     *logger.Logger
	Repository logRetentionRepo
	Retention  int
}

// NewLogRetentionJob prunes activity logs past the retention window.
func NewLogRetentionJob(params LogRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = logRetentionDays
	}
	return &logRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type logRetentionJob struct {
	logg      *logger.Logger
	repo      logRetentionRepo
	retention int
	now       func() time.Time
}

func (j *logRetentionJob) Name() string { return "activity-log-retention" }

func (j *logRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("activity log retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "activity log retention complete")
	return nil
}
