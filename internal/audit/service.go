package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradevista/websights-backend/pkg/db/models"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
	"github.com/tradevista/websights-backend/pkg/pagination"
)

type auditRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
	Query(ctx context.Context, filter Filter) ([]models.ActivityLog, int64, error)
	CountByType(ctx context.Context, since time.Time) ([]TypeCount, error)
	TopActions(ctx context.Context, since time.Time, limit int) ([]ActionCount, error)
}

const topActionsLimit = 10

// Entry is one recordable event.
type Entry struct {
	Type    enums.LogType
	ActorID *uuid.UUID
	Action  string
	Detail  map[string]any
}

// ListInput carries the admin log-browsing filters. Cursor takes precedence
// over Offset when both are supplied.
type ListInput struct {
	Type   string
	Actor  *uuid.UUID
	Action string
	Search string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
	Cursor string
}

// Page is a window of log rows plus the total match count. NextCursor is
// empty on the last page.
type Page struct {
	Rows       []models.ActivityLog `json:"rows"`
	Total      int64                `json:"total"`
	NextCursor string               `json:"next_cursor,omitempty"`
}

// StatsResult summarizes log volume over a trailing window.
type StatsResult struct {
	ByType     []TypeCount   `json:"by_type"`
	TopActions []ActionCount `json:"top_actions"`
}

// Service records and surfaces activity logs.
type Service interface {
	Record(ctx context.Context, entry Entry)
	List(ctx context.Context, input ListInput) (*Page, error)
	Stats(ctx context.Context, window time.Duration) (*StatsResult, error)
}

type service struct {
	repo auditRepository
	logg *logger.Logger
}

// NewService builds the audit service.
func NewService(repo auditRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Record appends an entry best-effort. Logging must never fail the request
// that triggered it, so errors are logged and swallowed.
func (s *service) Record(ctx context.Context, entry Entry) {
	if entry.Action == "" {
		return
	}
	logType := entry.Type
	if !logType.IsValid() {
		logType = enums.LogTypeSystem
	}

	row := &models.ActivityLog{
		LogType: logType,
		ActorID: entry.ActorID,
		Action:  entry.Action,
	}
	if len(entry.Detail) > 0 {
		row.Detail = dbtypes.JSONDoc(entry.Detail)
	}

	if err := s.repo.Append(ctx, row); err != nil && s.logg != nil {
		s.logg.Error(ctx, fmt.Sprintf("appending activity log %q", entry.Action), err)
	}
}

func (s *service) List(ctx context.Context, input ListInput) (*Page, error) {
	params := pagination.Params{Limit: input.Limit, Cursor: input.Cursor}
	limit := pagination.NormalizeLimit(params.Limit)

	filter := Filter{
		ActorID: input.Actor,
		Action:  input.Action,
		Search:  input.Search,
		Since:   input.Since,
		Until:   input.Until,
		Limit:   pagination.LimitWithBuffer(params.Limit),
		Offset:  input.Offset,
	}
	if input.Type != "" {
		logType, err := enums.ParseLogType(input.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid log type")
		}
		filter.Type = logType
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	if cursor != nil {
		filter.After = cursor
		filter.Offset = 0
	}

	rows, total, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "querying activity logs")
	}

	page := &Page{Total: total}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Rows = rows
	return page, nil
}

func (s *service) Stats(ctx context.Context, window time.Duration) (*StatsResult, error) {
	since := time.Time{}
	if window > 0 {
		since = time.Now().UTC().Add(-window)
	}
	byType, err := s.repo.CountByType(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating activity logs")
	}
	topActions, err := s.repo.TopActions(ctx, since, topActionsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregating activity logs")
	}
	return &StatsResult{ByType: byType, TopActions: topActions}, nil
}
