package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
	"github.com/tradevista/websights-backend/pkg/enums"
)

// ActivityLog is an append-only audit record. Rows are never updated;
// the cron retention sweep is the only delete path.
type ActivityLog struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LogType   enums.LogType   `gorm:"column:log_type;type:text;not null;index" json:"log_type"`
	ActorID   *uuid.UUID      `gorm:"column:actor_id;type:uuid;index" json:"actor_id,omitempty"`
	Action    string          `gorm:"column:action;not null;index" json:"action"`
	Detail    dbtypes.JSONDoc `gorm:"column:detail;type:jsonb" json:"detail"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}
