package models

import (
	"time"

	"github.com/google/uuid"
)

// FeatureFlag gates a platform feature behind a boolean toggle.
type FeatureFlag struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FlagKey     string     `gorm:"column:flag_key;not null;uniqueIndex" json:"flag_key"`
	Name        string     `gorm:"column:name;not null" json:"name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	IsEnabled   bool       `gorm:"column:is_enabled;not null;default:false" json:"is_enabled"`
	UpdatedBy   *uuid.UUID `gorm:"column:updated_by;type:uuid" json:"updated_by,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
