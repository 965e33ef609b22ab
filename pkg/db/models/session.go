package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradevista/websights-backend/pkg/enums"
)

// Session is a server-side record of an issued opaque token. Only the sha256
// digest of the token is stored; the raw token never touches the database.
type Session struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TokenDigest string            `gorm:"column:token_digest;not null;uniqueIndex" json:"-"`
	SubjectID   uuid.UUID         `gorm:"column:subject_id;type:uuid;not null;index" json:"subject_id"`
	SubjectKind enums.SubjectKind `gorm:"column:subject_kind;type:text;not null" json:"subject_kind"`
	ExpiresAt   time.Time         `gorm:"column:expires_at;not null" json:"expires_at"`
	RevokedAt   *time.Time        `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
