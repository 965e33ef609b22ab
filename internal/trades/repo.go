package trades

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
)

// Repository handles trade category persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to trade category operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trade category row.
func (r *Repository) Create(ctx context.Context, trade *models.TradeCategory) error {
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(trade).Error
}

// List returns all trade categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.TradeCategory, error) {
	var rows []models.TradeCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBySlug loads a trade category by its unique slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.TradeCategory, error) {
	var trade models.TradeCategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&trade).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

// Update saves the provided trade category row.
func (r *Repository) Update(ctx context.Context, trade *models.TradeCategory) error {
	return r.db.WithContext(ctx).Save(trade).Error
}

// DeleteBySlug removes a trade category; reports whether a row existed.
func (r *Repository) DeleteBySlug(ctx context.Context, slug string) (bool, error) {
	res := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.TradeCategory{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
