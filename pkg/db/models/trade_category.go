package models

import (
	"time"

	"github.com/google/uuid"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
)

// TradeCategory is a trade vertical (plumber, electrician, ...) with the demo
// business fields used to render an example site without a tenant account.
type TradeCategory struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Slug             string          `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Name             string          `gorm:"column:name;not null" json:"name"`
	Description      *string         `gorm:"column:description" json:"description,omitempty"`
	Icon             *string         `gorm:"column:icon" json:"icon,omitempty"`
	DemoBusinessName *string         `gorm:"column:demo_business_name" json:"demo_business_name,omitempty"`
	DemoCity         *string         `gorm:"column:demo_city" json:"demo_city,omitempty"`
	DemoTagline      *string         `gorm:"column:demo_tagline" json:"demo_tagline,omitempty"`
	DemoConfig       dbtypes.JSONDoc `gorm:"column:demo_config;type:jsonb" json:"demo_config"`
	UpdatedBy        *uuid.UUID      `gorm:"column:updated_by;type:uuid" json:"updated_by,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
