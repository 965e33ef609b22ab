package emails

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
)

// Repository handles email template persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to email template operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new template row.
func (r *Repository) Create(ctx context.Context, template *models.EmailTemplate) error {
	if template.ID == uuid.Nil {
		template.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(template).Error
}

// List returns all templates ordered by key.
func (r *Repository) List(ctx context.Context) ([]models.EmailTemplate, error) {
	var rows []models.EmailTemplate
	if err := r.db.WithContext(ctx).Order("template_key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByKey loads a template by its unique key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	if err := r.db.WithContext(ctx).Where("template_key = ?", key).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// Update saves the provided template row.
func (r *Repository) Update(ctx context.Context, template *models.EmailTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// DeleteByKey removes a template; reports whether a row existed.
func (r *Repository) DeleteByKey(ctx context.Context, key string) (bool, error) {
	res := r.db.WithContext(ctx).Where("template_key = ?", key).Delete(&models.EmailTemplate{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
