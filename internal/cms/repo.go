package cms

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
)

// Repository handles CMS content persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to CMS content operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new content row.
func (r *Repository) Create(ctx context.Context, content *models.CMSContent) error {
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(content).Error
}

// List returns all content rows, optionally filtered by category, ordered
// by key for stable output.
func (r *Repository) List(ctx context.Context, category string) ([]models.CMSContent, error) {
	q := r.db.WithContext(ctx).Model(&models.CMSContent{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var rows []models.CMSContent
	if err := q.Order("key ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByKey loads a content row by its unique key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.CMSContent, error) {
	var content models.CMSContent
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&content).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// Update saves the provided content row.
func (r *Repository) Update(ctx context.Context, content *models.CMSContent) error {
	return r.db.WithContext(ctx).Save(content).Error
}

// DeleteByKey removes a content row; reports whether a row existed.
func (r *Repository) DeleteByKey(ctx context.Context, key string) (bool, error) {
	res := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.CMSContent{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
