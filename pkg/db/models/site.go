package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
	"github.com/tradevista/websights-backend/pkg/enums"
)

// Site is a tenant's generated website. The unique index on OwnerID enforces
// exactly one site per user; writes go through an upsert keyed on the owner.
type Site struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID      uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;uniqueIndex" json:"owner_id"`
	Subdomain    string           `gorm:"column:subdomain;not null;uniqueIndex" json:"subdomain"`
	CustomDomain *string          `gorm:"column:custom_domain;uniqueIndex" json:"custom_domain,omitempty"`
	Config       dbtypes.JSONDoc  `gorm:"column:config;type:jsonb;not null" json:"config"`
	Status       enums.SiteStatus `gorm:"column:status;type:text;not null;default:'draft'" json:"status"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
