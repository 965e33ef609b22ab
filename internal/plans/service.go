package plans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type planRepository interface {
	Create(ctx context.Context, plan *models.PricingPlan) error
	List(ctx context.Context) ([]models.PricingPlan, error)
	FindByKey(ctx context.Context, key string) (*models.PricingPlan, error)
	Update(ctx context.Context, plan *models.PricingPlan) error
	DeleteByKey(ctx context.Context, key string) (bool, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// CreateInput carries the fields for a new plan.
type CreateInput struct {
	PlanKey       string
	Name          string
	MonthlyPrice  decimal.Decimal
	YearlyPrice   *decimal.Decimal
	TrialDays     int
	Features      []string
	Limits        map[string]any
	StripePriceID *string
}

// UpdateInput carries the mutable fields; nil pointers are left untouched.
type UpdateInput struct {
	Name          *string
	MonthlyPrice  *decimal.Decimal
	YearlyPrice   *decimal.Decimal
	TrialDays     *int
	Features      *[]string
	Limits        *map[string]any
	StripePriceID *string
}

// Service exposes pricing plan operations.
type Service interface {
	List(ctx context.Context) ([]models.PricingPlan, error)
	GetByKey(ctx context.Context, key string) (*models.PricingPlan, error)
	Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.PricingPlan, error)
	Update(ctx context.Context, actorID uuid.UUID, key string, input UpdateInput) (*models.PricingPlan, error)
	Delete(ctx context.Context, actorID uuid.UUID, key string) error
}

type service struct {
	repo  planRepository
	audit auditRecorder
}

// NewService builds the pricing plan service.
func NewService(repo planRepository, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("plans repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) List(ctx context.Context) ([]models.PricingPlan, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing pricing plans")
	}
	return rows, nil
}

func (s *service) GetByKey(ctx context.Context, key string) (*models.PricingPlan, error) {
	plan, err := s.repo.FindByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading pricing plan")
	}
	return plan, nil
}

func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateInput) (*models.PricingPlan, error) {
	key := strings.TrimSpace(input.PlanKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan key is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validatePrices(input.MonthlyPrice, input.YearlyPrice); err != nil {
		return nil, err
	}
	if input.TrialDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trial days cannot be negative")
	}

	plan := &models.PricingPlan{
		PlanKey:       key,
		Name:          input.Name,
		MonthlyPrice:  input.MonthlyPrice,
		YearlyPrice:   input.YearlyPrice,
		TrialDays:     input.TrialDays,
		Features:      pq.StringArray(input.Features),
		StripePriceID: input.StripePriceID,
		UpdatedBy:     &actorID,
	}
	if input.Limits != nil {
		plan.Limits = dbtypes.JSONDoc(input.Limits)
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		if db.IsUniqueViolation(err, "idx_pricing_plans_plan_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "plan key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating pricing plan")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "plans.create",
		Detail:  map[string]any{"plan_key": key, "monthly_price": input.MonthlyPrice.String()},
	})
	return plan, nil
}

func (s *service) Update(ctx context.Context, actorID uuid.UUID, key string, input UpdateInput) (*models.PricingPlan, error) {
	plan, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	var changed []string
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		plan.Name = *input.Name
		changed = append(changed, "name")
	}
	if input.MonthlyPrice != nil {
		if input.MonthlyPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "monthly price cannot be negative")
		}
		plan.MonthlyPrice = *input.MonthlyPrice
		changed = append(changed, "monthly_price")
	}
	if input.YearlyPrice != nil {
		if input.YearlyPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "yearly price cannot be negative")
		}
		plan.YearlyPrice = input.YearlyPrice
		changed = append(changed, "yearly_price")
	}
	if input.TrialDays != nil {
		if *input.TrialDays < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "trial days cannot be negative")
		}
		plan.TrialDays = *input.TrialDays
		changed = append(changed, "trial_days")
	}
	if input.Features != nil {
		plan.Features = pq.StringArray(*input.Features)
		changed = append(changed, "features")
	}
	if input.Limits != nil {
		plan.Limits = dbtypes.JSONDoc(*input.Limits)
		changed = append(changed, "limits")
	}
	if input.StripePriceID != nil {
		plan.StripePriceID = input.StripePriceID
		changed = append(changed, "stripe_price_id")
	}
	plan.UpdatedBy = &actorID

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating pricing plan")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "plans.update",
		Detail:  map[string]any{"plan_key": plan.PlanKey, "fields": changed},
	})
	return plan, nil
}

func (s *service) Delete(ctx context.Context, actorID uuid.UUID, key string) error {
	key = strings.TrimSpace(key)
	deleted, err := s.repo.DeleteByKey(ctx, key)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting pricing plan")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
	}

	s.audit.Record(ctx, audit.Entry{
		Type:    enums.LogTypeAdminAction,
		ActorID: &actorID,
		Action:  "plans.delete",
		Detail:  map[string]any{"plan_key": key},
	})
	return nil
}

func validatePrices(monthly decimal.Decimal, yearly *decimal.Decimal) error {
	if monthly.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "monthly price cannot be negative")
	}
	if yearly != nil && yearly.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "yearly price cannot be negative")
	}
	return nil
}
