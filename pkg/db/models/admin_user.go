package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradevista/websights-backend/pkg/enums"
)

// AdminUser represents an administrator identity.
type AdminUser struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string          `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"column:password_hash;not null" json:"-"`
	DisplayName  string          `gorm:"column:display_name;not null" json:"display_name"`
	Role         enums.AdminRole `gorm:"column:role;type:text;not null;default:'owner'" json:"role"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
