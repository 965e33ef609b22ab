package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradevista/websights-backend/pkg/enums"
)

// CMSContent is a keyed piece of editable site copy.
type CMSContent struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key         string            `gorm:"column:key;not null;uniqueIndex" json:"key"`
	Value       string            `gorm:"column:value;not null" json:"value"`
	ContentType enums.ContentType `gorm:"column:content_type;type:text;not null;default:'text'" json:"content_type"`
	Description *string           `gorm:"column:description" json:"description,omitempty"`
	Category    *string           `gorm:"column:category;index" json:"category,omitempty"`
	UpdatedBy   *uuid.UUID        `gorm:"column:updated_by;type:uuid" json:"updated_by,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
