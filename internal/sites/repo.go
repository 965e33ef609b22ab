package sites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
)

// Repository handles site persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to site operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new site row.
func (r *Repository) Create(ctx context.Context, site *models.Site) error {
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(site).Error
}

// FindByOwner loads the site owned by the given user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Site, error) {
	var site models.Site
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// FindBySubdomain loads a site by its platform subdomain.
func (r *Repository) FindBySubdomain(ctx context.Context, subdomain string) (*models.Site, error) {
	var site models.Site
	if err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// FindByCustomDomain loads a site by its attached custom domain.
func (r *Repository) FindByCustomDomain(ctx context.Context, domain string) (*models.Site, error) {
	var site models.Site
	if err := r.db.WithContext(ctx).Where("custom_domain = ?", domain).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

// Update saves the provided site row.
func (r *Repository) Update(ctx context.Context, site *models.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

// SetStatus flips the site's publish status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Site{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// SetStatusByOwner flips the publish status of the owner's site.
func (r *Repository) SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Site{}).
		Where("owner_id = ?", ownerID).
		UpdateColumn("status", status).Error
}
