package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
)

func setupSessionTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sessions := `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  token_digest TEXT NOT NULL UNIQUE,
  subject_id TEXT NOT NULL,
  subject_kind TEXT NOT NULL,
  expires_at DATETIME NOT NULL,
  revoked_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(sessions).Error)
	return db
}

func seedSession(t *testing.T, repo *SessionRepository, digest string, expiresAt time.Time, revokedAt *time.Time) *models.Session {
	t.Helper()
	session := &models.Session{
		TokenDigest: digest,
		SubjectID:   uuid.New(),
		SubjectKind: enums.SubjectKindUser,
		ExpiresAt:   expiresAt,
		RevokedAt:   revokedAt,
	}
	require.NoError(t, repo.Create(context.Background(), session))
	return session
}

func TestSessionRepositoryFindByDigest(t *testing.T) {
	repo := NewSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	created := seedSession(t, repo, "digest-live", now.Add(time.Hour), nil)

	found, err := repo.FindByDigest(ctx, "digest-live")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.SubjectID, found.SubjectID)

	_, err = repo.FindByDigest(ctx, "digest-missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepositoryRevoke(t *testing.T) {
	repo := NewSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	seedSession(t, repo, "digest-revoke", now.Add(time.Hour), nil)

	require.NoError(t, repo.Revoke(ctx, "digest-revoke", now))

	found, err := repo.FindByDigest(ctx, "digest-revoke")
	require.NoError(t, err)
	require.NotNil(t, found.RevokedAt)

	// Revoking again must not move the original timestamp.
	require.NoError(t, repo.Revoke(ctx, "digest-revoke", now.Add(time.Minute)))
	again, err := repo.FindByDigest(ctx, "digest-revoke")
	require.NoError(t, err)
	assert.Equal(t, found.RevokedAt.Unix(), again.RevokedAt.Unix())
}

func TestSessionRepositoryRevokeAllForSubject(t *testing.T) {
	repo := NewSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	subject := uuid.New()
	first := &models.Session{
		TokenDigest: "digest-a",
		SubjectID:   subject,
		SubjectKind: enums.SubjectKindUser,
		ExpiresAt:   now.Add(time.Hour),
	}
	second := &models.Session{
		TokenDigest: "digest-b",
		SubjectID:   subject,
		SubjectKind: enums.SubjectKindUser,
		ExpiresAt:   now.Add(time.Hour),
	}
	other := seedSession(t, repo, "digest-other", now.Add(time.Hour), nil)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.RevokeAllForSubject(ctx, subject, enums.SubjectKindUser, now))

	for _, digest := range []string{"digest-a", "digest-b"} {
		found, err := repo.FindByDigest(ctx, digest)
		require.NoError(t, err)
		assert.NotNil(t, found.RevokedAt, digest)
	}

	untouched, err := repo.FindByDigest(ctx, other.TokenDigest)
	require.NoError(t, err)
	assert.Nil(t, untouched.RevokedAt)
}

func setupAdminTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	admins := `
CREATE TABLE IF NOT EXISTS admin_users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  display_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'owner',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(admins).Error)
	return db
}

func TestAdminRepositoryCreateFirst(t *testing.T) {
	repo := NewAdminRepository(setupAdminTestDB(t))
	ctx := context.Background()

	first := &models.AdminUser{
		Email:        "owner@tradevista.app",
		PasswordHash: "hash",
		DisplayName:  "Owner",
		Role:         enums.AdminRoleOwner,
	}
	created, err := repo.CreateFirst(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	second := &models.AdminUser{
		Email:        "second@tradevista.app",
		PasswordHash: "hash",
		DisplayName:  "Second",
		Role:         enums.AdminRoleOwner,
	}
	created, err = repo.CreateFirst(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repo.FindByEmail(ctx, "second@tradevista.app")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByEmail(ctx, "owner@tradevista.app")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestSessionRepositoryDeleteExpired(t *testing.T) {
	repo := NewSessionRepository(setupSessionTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()
	revokedAt := now.Add(-time.Minute)

	seedSession(t, repo, "digest-expired", now.Add(-time.Hour), nil)
	seedSession(t, repo, "digest-revoked", now.Add(time.Hour), &revokedAt)
	live := seedSession(t, repo, "digest-live", now.Add(time.Hour), nil)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = repo.FindByDigest(ctx, "digest-expired")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = repo.FindByDigest(ctx, "digest-revoked")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	kept, err := repo.FindByDigest(ctx, live.TokenDigest)
	require.NoError(t, err)
	assert.Equal(t, live.ID, kept.ID)
}
