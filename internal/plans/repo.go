package plans

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
)

// Repository handles pricing plan persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to pricing plan operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new plan row.
func (r *Repository) Create(ctx context.Context, plan *models.PricingPlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(plan).Error
}

// List returns all plans ordered by monthly price ascending.
func (r *Repository) List(ctx context.Context) ([]models.PricingPlan, error) {
	var rows []models.PricingPlan
	if err := r.db.WithContext(ctx).Order("monthly_price ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByKey loads a plan by its unique key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.PricingPlan, error) {
	var plan models.PricingPlan
	if err := r.db.WithContext(ctx).Where("plan_key = ?", key).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update saves the provided plan row.
func (r *Repository) Update(ctx context.Context, plan *models.PricingPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

// DeleteByKey removes a plan; reports whether a row existed.
func (r *Repository) DeleteByKey(ctx context.Context, key string) (bool, error) {
	res := r.db.WithContext(ctx).Where("plan_key = ?", key).Delete(&models.PricingPlan{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
