package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailTemplate is a transactional email subject/body pair.
type EmailTemplate struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TemplateKey string     `gorm:"column:template_key;not null;uniqueIndex" json:"template_key"`
	Subject     string     `gorm:"column:subject;not null" json:"subject"`
	BodyHTML    string     `gorm:"column:body_html;not null" json:"body_html"`
	BodyText    *string    `gorm:"column:body_text" json:"body_text,omitempty"`
	UpdatedBy   *uuid.UUID `gorm:"column:updated_by;type:uuid" json:"updated_by,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
