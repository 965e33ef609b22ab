package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
)

// SessionRepository persists issued session token digests.
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository binds a GORM DB to session operations.
func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session row.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByDigest loads a session by its token digest.
func (r *SessionRepository) FindByDigest(ctx context.Context, digest string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).Where("token_digest = ?", digest).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// Revoke stamps the session revoked. Revoking an already-revoked or unknown
// digest is a no-op.
func (r *SessionRepository) Revoke(ctx context.Context, digest string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("token_digest = ? AND revoked_at IS NULL", digest).
		UpdateColumn("revoked_at", at).Error
}

// RevokeAllForSubject invalidates every live session of one subject.
func (r *SessionRepository) RevokeAllForSubject(ctx context.Context, subjectID uuid.UUID, kind enums.SubjectKind, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("subject_id = ? AND subject_kind = ? AND revoked_at IS NULL", subjectID, kind).
		UpdateColumn("revoked_at", at).Error
}

// DeleteExpired removes sessions past their expiry along with revoked rows.
// Meant for a periodic sweep; resolution already rejects both.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at IS NOT NULL", before).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

// AdminRepository persists administrator identities.
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository binds a GORM DB to admin user operations.
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts an admin user.
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(admin).Error
}

// FindByEmail retrieves the admin matching the provided email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID loads an admin by their UUID.
func (r *AdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateFirst inserts the admin only while the table is empty. The count and
// insert run in one transaction so concurrent setup calls cannot both win.
func (r *AdminRepository) CreateFirst(ctx context.Context, admin *models.AdminUser) (bool, error) {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(admin).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
