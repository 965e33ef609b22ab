package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/tradevista/websights-backend/pkg/logger"
)

type sessionPurgeRepo interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type SessionPurgeJobParams struct {
	Logger     *logger.Logger
	Repository sessionPurgeRepo
}

// NewSessionPurgeJob removes expired and revoked session rows. Live sessions
// are untouched; the table only grows with dead tokens otherwise.
func NewSessionPurgeJob(params SessionPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("session repository required")
	}
	return &sessionPurgeJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type sessionPurgeJob struct {
	logg *logger.Logger
	repo sessionPurgeRepo
	now  func() time.Time
}

func (j *sessionPurgeJob) Name() string { return "session-purge" }

func (j *sessionPurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	deleted, err := j.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("session purge: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "session purge complete")
	return nil
}
