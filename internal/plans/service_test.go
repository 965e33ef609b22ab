package plans

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/internal/audit"
	"github.com/tradevista/websights-backend/pkg/db/models"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type stubPlanRepo struct {
	rows      []models.PricingPlan
	createErr error
	created   *models.PricingPlan
	findRow   *models.PricingPlan
	findErr   error
	updated   *models.PricingPlan
	updateErr error
	deleted   bool
	deleteErr error
}

func (s *stubPlanRepo) Create(ctx context.Context, plan *models.PricingPlan) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = plan
	return nil
}

func (s *stubPlanRepo) List(ctx context.Context) ([]models.PricingPlan, error) {
	return s.rows, nil
}

func (s *stubPlanRepo) FindByKey(ctx context.Context, key string) (*models.PricingPlan, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.findRow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.findRow, nil
}

func (s *stubPlanRepo) Update(ctx context.Context, plan *models.PricingPlan) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = plan
	return nil
}

func (s *stubPlanRepo) DeleteByKey(ctx context.Context, key string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	return s.deleted, nil
}

type stubRecorder struct {
	entries []audit.Entry
}

func (s *stubRecorder) Record(ctx context.Context, entry audit.Entry) {
	s.entries = append(s.entries, entry)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, _ := NewService(&stubPlanRepo{}, &stubRecorder{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		PlanKey:      "founder",
		Name:         "Founder",
		MonthlyPrice: decimal.NewFromInt(-5),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsNegativeTrial(t *testing.T) {
	svc, _ := NewService(&stubPlanRepo{}, &stubRecorder{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateInput{
		PlanKey:      "founder",
		Name:         "Founder",
		MonthlyPrice: decimal.NewFromInt(29),
		TrialDays:    -1,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateStampsActorAndAudits(t *testing.T) {
	repo := &stubPlanRepo{}
	recorder := &stubRecorder{}
	svc, _ := NewService(repo, recorder)

	actor := uuid.New()
	plan, err := svc.Create(context.Background(), actor, CreateInput{
		PlanKey:      "founder",
		Name:         "Founder",
		MonthlyPrice: decimal.NewFromInt(29),
		Features:     []string{"custom_domain", "ai_generation"},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if plan.UpdatedBy == nil || *plan.UpdatedBy != actor {
		t.Fatal("actor not stamped")
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "plans.create" {
		t.Fatalf("expected plans.create audit entry, got %+v", recorder.entries)
	}
}

func TestUpdatePartialPrice(t *testing.T) {
	repo := &stubPlanRepo{findRow: &models.PricingPlan{
		PlanKey:      "founder",
		Name:         "Founder",
		MonthlyPrice: decimal.NewFromInt(29),
	}}
	svc, _ := NewService(repo, &stubRecorder{})

	price := decimal.NewFromInt(39)
	plan, err := svc.Update(context.Background(), uuid.New(), "founder", UpdateInput{MonthlyPrice: &price})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !plan.MonthlyPrice.Equal(price) {
		t.Fatalf("price not applied: %s", plan.MonthlyPrice)
	}
	if plan.Name != "Founder" {
		t.Fatal("untouched field modified")
	}
}

func TestUpdateAuditNamesChangedFields(t *testing.T) {
	repo := &stubPlanRepo{findRow: &models.PricingPlan{
		PlanKey:      "founder",
		Name:         "Founder",
		MonthlyPrice: decimal.NewFromInt(29),
	}}
	recorder := &stubRecorder{}
	svc, _ := NewService(repo, recorder)

	price := decimal.NewFromInt(39)
	trial := 14
	_, err := svc.Update(context.Background(), uuid.New(), "founder", UpdateInput{MonthlyPrice: &price, TrialDays: &trial})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(recorder.entries))
	}
	fields, ok := recorder.entries[0].Detail["fields"].([]string)
	if !ok {
		t.Fatalf("fields missing from detail: %+v", recorder.entries[0].Detail)
	}
	if len(fields) != 2 || fields[0] != "monthly_price" || fields[1] != "trial_days" {
		t.Fatalf("unexpected changed fields: %v", fields)
	}
}

func TestUpdateMissingPlan(t *testing.T) {
	svc, _ := NewService(&stubPlanRepo{}, &stubRecorder{})

	name := "Pro"
	_, err := svc.Update(context.Background(), uuid.New(), "missing", UpdateInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMissingPlan(t *testing.T) {
	svc, _ := NewService(&stubPlanRepo{deleted: false}, &stubRecorder{})

	err := svc.Delete(context.Background(), uuid.New(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
