package flags

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type flagRepository interface {
	Create(ctx context.Context, flag *models.FeatureFlag) error
	List(ctx context.Context) ([]models.FeatureFlag, error)
	FindByKey(ctx context.Context, key string) (*models.FeatureFlag, error)
	Update(ctx context.Context, flag *models.FeatureFlag) error
	DeleteByKey(ctx context.Context, key string) (bool, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// CreateInput carries the fields for a new flag.
type CreateInput struct {
	FlagKey     string
	Name        string
	Description *string
	IsEnabled   bool
}

// Service exposes feature flag operations.
type Service interface {
	List(ctx context.Context) ([]models.FeatureFlag, error)
	IsEnabled(ctx context.Context, key string) (bool, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.FeatureFlag, error)
	SetEnabled(ctx context.Context, actorID uuid.UUID, key string, enabled bool) (*models.FeatureFlag, error)
	Delete(ctx context.Context, actorID uuid.UUID, key string) error
}

type service struct {
	repo  flagRepository
	audit auditRecorder
}

// NewService builds the feature flag service.
func NewService(repo flagRepository, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("flags repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) List(ctx context.Context) ([]models.FeatureFlag, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing feature flags")
	}
	return rows, nil
}

// IsEnabled reports the flag's state. An unknown flag reads as disabled
// rather than erroring so new flags can be referenced before creation.
func (s *service) IsEnabled(ctx context.Context, key string) (bool, error) {
	flag, err := s.repo.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading feature flag")
	}
	return flag.IsEnabled, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.FeatureFlag, error) {
	key := strings.TrimSpace(input.FlagKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "flag key is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	flag := &models.FeatureFlag{
		FlagKey:     key,
		Name:        name,
		Description: input.Description,
		IsEnabled:   input.IsEnabled,
		UpdatedBy:   &actorID,
	}
	if err := s.repo.Create(ctx, flag); err != nil {
		if db.IsUniqueViolation(err, "idx_feature_flags_flag_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "flag key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating feature flag")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "flags.create",
		Detail:  map[string]any{"flag_key": key, "enabled": input.IsEnabled},
	})
	return flag, nil
}

func (s *service) SetEnabled(ctx context.Context, actorID uuid.UUID, key string, enabled bool) (*models.FeatureFlag, error) {
	flag, err := s.repo.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "flag not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading feature flag")
	}

	flag.IsEnabled = enabled
	flag.UpdatedBy = &actorID
	if err := s.repo.Update(ctx, flag); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating feature flag")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "flags.toggle",
		Detail:  map[string]any{"flag_key": flag.FlagKey, "enabled": enabled},
	})
	return flag, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, key string) error {
	key = strings.TrimSpace(key)
	deleted, err := s.repo.DeleteByKey(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting feature flag")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "flag not found")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "flags.delete",
		Detail:  map[string]any{"flag_key": key},
	})
	return nil
}
