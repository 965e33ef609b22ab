package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/internal/generation"
	"github.com/tradevista/websights-backend/internal/users"
	"github.com/tradevista/websights-backend/pkg/config"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	minPasswordLength         = 8
)

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type adminRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	CreateFirst(ctx context.Context, admin *models.AdminUser) (bool, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
}

type sessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByDigest(ctx context.Context, digest string) (*models.Session, error)
	Revoke(ctx context.Context, digest string, at time.Time) error
	RevokeAllForSubject(ctx context.Context, subjectID uuid.UUID, kind enums.SubjectKind, at time.Time) error
}

type founderClaimer interface {
	ClaimFounder(ctx context.Context, userID uuid.UUID) (bool, error)
	Profile(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type siteProvisioner interface {
	CreateForOwner(ctx context.Context, ownerID uuid.UUID, businessName string, config map[string]any) (*models.Site, error)
}

type configGenerator interface {
	Generate(ctx context.Context, input generation.GenerateInput) (*generation.Result, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*SignupResult, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	AdminLogin(ctx context.Context, input LoginInput) (*AdminLoginResult, error)
	AdminSetup(ctx context.Context, input LoginInput, displayName string) (*AdminLoginResult, error)
	ResolveCaller(ctx context.Context, rawToken string) (*Caller, error)
	Logout(ctx context.Context, rawToken string) error
	Impersonate(ctx context.Context, adminID, targetUserID uuid.UUID) (*LoginResult, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo    userRepository
	AdminRepo   adminRepository
	SessionRepo sessionRepository
	Founders    founderClaimer
	Sites       siteProvisioner
	Generator   configGenerator
	Audit       auditRecorder
	PasswordCfg config.PasswordConfig
	SessionCfg  config.SessionConfig
}

type service struct {
	users       userRepository
	admins      adminRepository
	sessions    sessionRepository
	founders    founderClaimer
	sites       siteProvisioner
	generator   configGenerator
	audit       auditRecorder
	passwordCfg config.PasswordConfig
	sessionCfg  config.SessionConfig
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.AdminRepo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.SessionRepo == nil {
		return nil, fmt.Errorf("session repository is required")
	}
	if params.Founders == nil {
		return nil, fmt.Errorf("founder service is required")
	}
	if params.Sites == nil {
		return nil, fmt.Errorf("site service is required")
	}
	if params.Generator == nil {
		return nil, fmt.Errorf("generation service is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{
		users:       params.UserRepo,
		admins:      params.AdminRepo,
		sessions:    params.SessionRepo,
		founders:    params.Founders,
		sites:       params.Sites,
		generator:   params.Generator,
		audit:       params.Audit,
		passwordCfg: params.PasswordCfg,
		sessionCfg:  params.SessionCfg,
	}, nil
}

// Signup registers a tenant, claims a founder slot when one remains, and
// provisions their generated site in one flow.
func (s *service) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Trade) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade is required")
	}
	if strings.TrimSpace(input.BusinessName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         input.Name,
		Trade:        input.Trade,
		BusinessName: input.BusinessName,
		Phone:        input.Phone,
		City:         input.City,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	// A lost race for the last slot is fine; the account continues as a
	// regular tenant.
	claimed, err := s.founders.ClaimFounder(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if claimed {
		if refreshed, err := s.founders.Profile(ctx, user.ID); err == nil {
			user = refreshed
		}
	}

	phone := ""
	if input.Phone != nil {
		phone = *input.Phone
	}
	city := ""
	if input.City != nil {
		city = *input.City
	}
	generated, err := s.generator.Generate(ctx, generation.GenerateInput{
		BusinessName: input.BusinessName,
		Trade:        input.Trade,
		City:         city,
		Phone:        phone,
	})
	if err != nil {
		return nil, err
	}

	site, err := s.sites.CreateForOwner(ctx, user.ID, input.BusinessName, generated.Config)
	if err != nil {
		return nil, err
	}

	session, err := s.issueSession(ctx, user.ID, enums.SubjectKindUser, s.sessionCfg.UserTTL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeUserAction,
		ActorID: &user.ID,
		Action:  "auth.signup",
		Detail: map[string]any{
			"email":      email,
			"founder":    claimed,
			"from_model": generated.FromModel,
		},
	})

	return &SignupResult{
		User:          user,
		Site:          site,
		FounderNumber: user.FounderNumber,
		Session:       *session,
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	if err := s.verifyPassword(input.Password, user.PasswordHash); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record login")
	}
	user.LastLoginAt = &now

	session, err := s.issueSession(ctx, user.ID, enums.SubjectKindUser, s.sessionCfg.UserTTL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeUserAction,
		ActorID: &user.ID,
		Action:  "auth.login",
	})

	return &LoginResult{User: user, Session: *session}, nil
}

func (s *service) AdminLogin(ctx context.Context, input LoginInput) (*AdminLoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}

	if err := s.verifyPassword(input.Password, admin.PasswordHash); err != nil {
		return nil, err
	}

	session, err := s.issueSession(ctx, admin.ID, enums.SubjectKindAdmin, s.sessionCfg.AdminTTL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &admin.ID,
		Action:  "auth.admin_login",
	})

	return &AdminLoginResult{Admin: admin, Session: *session}, nil
}

// AdminSetup creates the first administrator. Once any admin exists the
// endpoint is closed; further admins are provisioned out of band.
func (s *service) AdminSetup(ctx context.Context, input LoginInput, displayName string) (*AdminLoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin := &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         enums.AdminRoleOwner,
	}
	created, err := s.admins.CreateFirst(ctx, admin)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_admin_users_email") {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "setup already completed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin")
	}
	if !created {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "setup already completed")
	}

	session, err := s.issueSession(ctx, admin.ID, enums.SubjectKindAdmin, s.sessionCfg.AdminTTL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &admin.ID,
		Action:  "auth.admin_setup",
	})

	return &AdminLoginResult{Admin: admin, Session: *session}, nil
}

// ResolveCaller validates a raw token and loads the identity behind it.
func (s *service) ResolveCaller(ctx context.Context, rawToken string) (*Caller, error) {
	if rawToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	session, err := s.sessions.FindByDigest(ctx, security.DigestToken(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup session")
	}
	if session.RevokedAt != nil || time.Now().After(session.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}

	caller := &Caller{SubjectID: session.SubjectID, Kind: session.SubjectKind}
	switch session.SubjectKind {
	case enums.SubjectKindUser:
		user, err := s.users.FindByID(ctx, session.SubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		caller.User = user
	case enums.SubjectKindAdmin:
		admin, err := s.admins.FindByID(ctx, session.SubjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
		}
		caller.Admin = admin
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}
	return caller, nil
}

// Logout revokes the presented token. Unknown tokens succeed silently.
func (s *service) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, security.DigestToken(rawToken), time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Impersonate issues a user session on behalf of an administrator. The act
// is always audited with both identities.
func (s *service) Impersonate(ctx context.Context, adminID, targetUserID uuid.UUID) (*LoginResult, error) {
	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}

	user, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	session, err := s.issueSession(ctx, user.ID, enums.SubjectKindUser, s.sessionCfg.UserTTL)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &admin.ID,
		Action:  "auth.impersonate",
		Detail:  map[string]any{"target_user_id": user.ID.String()},
	})

	return &LoginResult{User: user, Session: *session}, nil
}

func (s *service) issueSession(ctx context.Context, subjectID uuid.UUID, kind enums.SubjectKind, ttl time.Duration) (*Session, error) {
	raw, digest, err := security.NewSessionToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate session token")
	}

	expiresAt := time.Now().UTC().Add(ttl)
	if err := s.sessions.Create(ctx, &models.Session{
		TokenDigest: digest,
		SubjectID:   subjectID,
		SubjectKind: kind,
		ExpiresAt:   expiresAt,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}

	return &Session{Token: raw, ExpiresAt: expiresAt}, nil
}

func (s *service) verifyPassword(password, hash string) error {
	ok, err := security.VerifyPassword(password, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return nil
}
