package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	"github.com/tradevista/websights-backend/pkg/pagination"
)

// Repository persists and queries activity log rows. Rows are never
// updated; the only delete is the retention sweep.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to activity log operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a single activity log row.
func (r *Repository) Append(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Filter narrows an activity log query. Zero values are ignored. Action
// matches as a substring; Search scans both action and detail. After resumes
// a newest-first scan from a previous page's last row.
type Filter struct {
	Type    enums.LogType
	ActorID *uuid.UUID
	Action  string
	Search  string
	Since   time.Time
	Until   time.Time
	Limit   int
	Offset  int
	After   *pagination.Cursor
}

// Query returns matching rows newest-first plus the total match count.
func (r *Repository) Query(ctx context.Context, filter Filter) ([]models.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.ActivityLog{})
	if filter.Type != "" {
		q = q.Where("log_type = ?", filter.Type)
	}
	if filter.ActorID != nil {
		q = q.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		q = q.Where("action LIKE ?", "%"+filter.Action+"%")
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(action) LIKE ? OR LOWER(CAST(detail AS TEXT)) LIKE ?", pattern, pattern)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("created_at < ?", filter.Until)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.After != nil {
		q = q.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			filter.After.CreatedAt, filter.After.CreatedAt, filter.After.ID,
		)
	}

	var rows []models.ActivityLog
	if err := q.Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DeleteOlderThan removes log rows created before the cutoff.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&models.ActivityLog{})
	return res.RowsAffected, res.Error
}

// TypeCount is one row of the per-type activity summary.
type TypeCount struct {
	LogType enums.LogType `json:"log_type"`
	Count   int64         `json:"count"`
}

// ActionCount is one row of the per-action activity summary.
type ActionCount struct {
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// TopActions returns the most frequent actions since the given instant.
func (r *Repository) TopActions(ctx context.Context, since time.Time, limit int) ([]ActionCount, error) {
	var counts []ActionCount
	q := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Select("action", "count(*) as count").
		Group("action").
		Order("count DESC").
		Limit(limit)
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByType aggregates log volume per type since the given instant.
func (r *Repository) CountByType(ctx context.Context, since time.Time) ([]TypeCount, error) {
	var counts []TypeCount
	q := r.db.WithContext(ctx).
		Model(&models.ActivityLog{}).
		Select("log_type", "count(*) as count").
		Group("log_type")
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if err := q.Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
