package flags

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
)

// Repository handles feature flag persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to feature flag operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new flag row.
func (r *Repository) Create(ctx context.Context, flag *models.FeatureFlag) error {
	if flag.ID == uuid.Nil {
		flag.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(flag).Error
}

// List returns all flags ordered by key.
func (r *Repository) List(ctx context.Context) ([]models.FeatureFlag, error) {
	var rows []models.FeatureFlag
	if err := r.db.WithContext(ctx).Order("flag_key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByKey loads a flag by its unique key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.FeatureFlag, error) {
	var flag models.FeatureFlag
	if err := r.db.WithContext(ctx).Where("flag_key = ?", key).First(&flag).Error; err != nil {
		return nil, err
	}
	return &flag, nil
}

// Update saves the provided flag row.
func (r *Repository) Update(ctx context.Context, flag *models.FeatureFlag) error {
	return r.db.WithContext(ctx).Save(flag).Error
}

// DeleteByKey removes a flag; reports whether a row existed.
func (r *Repository) DeleteByKey(ctx context.Context, key string) (bool, error) {
	res := r.db.WithContext(ctx).Where("flag_key = ?", key).Delete(&models.FeatureFlag{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
