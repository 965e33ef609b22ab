package trades

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type tradeRepository interface {
	Create(ctx context.Context, trade *models.TradeCategory) error
	List(ctx context.Context) ([]models.TradeCategory, error)
	FindBySlug(ctx context.Context, slug string) (*models.TradeCategory, error)
	Update(ctx context.Context, trade *models.TradeCategory) error
	DeleteBySlug(ctx context.Context, slug string) (bool, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// CreateInput carries the fields for a new trade category. An empty Slug is
// derived from the name.
type CreateInput struct {
	Slug             string
	Name             string
	Description      *string
	Icon             *string
	DemoBusinessName *string
	DemoCity         *string
	DemoTagline      *string
	DemoConfig       map[string]any
}

// UpdateInput carries the mutable fields; nil pointers are left untouched.
type UpdateInput struct {
	Name             *string
	Description      *string
	Icon             *string
	DemoBusinessName *string
	DemoCity         *string
	DemoTagline      *string
	DemoConfig       *map[string]any
}

// Service exposes trade category operations.
type Service interface {
	List(ctx context.Context) ([]models.TradeCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.TradeCategory, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.TradeCategory, error)
	Update(ctx context.Context, actorID uuid.UUID, slug string, input UpdateInput) (*models.TradeCategory, error)
	Delete(ctx context.Context, actorID uuid.UUID, slug string) error
}

type service struct {
	repo  tradeRepository
	audit auditRecorder
}

// NewService builds the trade category service.
func NewService(repo tradeRepository, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("trades repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) List(ctx context.Context) ([]models.TradeCategory, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing trade categories")
	}
	return rows, nil
}

func (s *service) GetBySlug(ctx context.Context, rawSlug string) (*models.TradeCategory, error) {
	trade, err := s.repo.FindBySlug(ctx, strings.TrimSpace(rawSlug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trade category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading trade category")
	}
	return trade, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.TradeCategory, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	tradeSlug := strings.TrimSpace(input.Slug)
	if tradeSlug == "" {
		tradeSlug = slug.Make(name)
	} else if !slug.IsSlug(tradeSlug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits, and hyphens")
	}

	trade := &models.TradeCategory{
		Slug:             tradeSlug,
		Name:             name,
		Description:      input.Description,
		Icon:             input.Icon,
		DemoBusinessName: input.DemoBusinessName,
		DemoCity:         input.DemoCity,
		DemoTagline:      input.DemoTagline,
		UpdatedBy:        &actorID,
	}
	if input.DemoConfig != nil {
		trade.DemoConfig = dbtypes.JSONDoc(input.DemoConfig)
	}

	if err := s.repo.Create(ctx, trade); err != nil {
		if db.IsUniqueViolation(err, "idx_trade_categories_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "trade slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating trade category")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "trades.create",
		Detail:  map[string]any{"slug": tradeSlug},
	})
	return trade, nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, rawSlug string, input UpdateInput) (*models.TradeCategory, error) {
	trade, err := s.GetBySlug(ctx, rawSlug)
	if err != nil {
		return nil, err
	}

	var changed []string
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		trade.Name = *input.Name
		changed = append(changed, "name")
	}
	if input.Description != nil {
		trade.Description = input.Description
		changed = append(changed, "description")
	}
	if input.Icon != nil {
		trade.Icon = input.Icon
		changed = append(changed, "icon")
	}
	if input.DemoBusinessName != nil {
		trade.DemoBusinessName = input.DemoBusinessName
		changed = append(changed, "demo_business_name")
	}
	if input.DemoCity != nil {
		trade.DemoCity = input.DemoCity
		changed = append(changed, "demo_city")
	}
	if input.DemoTagline != nil {
		trade.DemoTagline = input.DemoTagline
		changed = append(changed, "demo_tagline")
	}
	if input.DemoConfig != nil {
		trade.DemoConfig = dbtypes.JSONDoc(*input.DemoConfig)
		changed = append(changed, "demo_config")
	}
	trade.UpdatedBy = &actorID

	if err := s.repo.Update(ctx, trade); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating trade category")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "trades.update",
		Detail:  map[string]any{"slug": trade.Slug, "fields": changed},
	})
	return trade, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, rawSlug string) error {
	rawSlug = strings.TrimSpace(rawSlug)
	deleted, err := s.repo.DeleteBySlug(ctx, rawSlug)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting trade category")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "trade category not found")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "trades.delete",
		Detail:  map[string]any{"slug": rawSlug},
	})
	return nil
}
