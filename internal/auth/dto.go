package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
)

// SignupInput captures a new tenant registration.
type SignupInput struct {
	Email        string
	Password     string
	Name         string
	Trade        string
	BusinessName string
	Phone        *string
	City         *string
}

// LoginInput carries credentials for tenant or admin login.
type LoginInput struct {
	Email    string
	Password string
}

// Session is an issued token plus its expiry; the raw token is returned to
// the caller exactly once.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignupResult is everything a fresh signup produces.
type SignupResult struct {
	User          *models.User `json:"user"`
	Site          *models.Site `json:"site"`
	FounderNumber *int         `json:"founder_number,omitempty"`
	Session       Session      `json:"session"`
}

// LoginResult pairs an authenticated user with their new session.
type LoginResult struct {
	User    *models.User `json:"user"`
	Session Session      `json:"session"`
}

// AdminLoginResult pairs an authenticated admin with their new session.
type AdminLoginResult struct {
	Admin   *models.AdminUser `json:"admin"`
	Session Session           `json:"session"`
}

// Caller is the resolved identity behind a session token.
type Caller struct {
	SubjectID uuid.UUID
	Kind      enums.SubjectKind
	User      *models.User
	Admin     *models.AdminUser
}

// IsAdmin reports whether the caller authenticated as an administrator.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Kind == enums.SubjectKindAdmin
}
