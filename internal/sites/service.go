package sites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db"
	"github.com/tradevista/websights-backend/pkg/db/models"
	dbtypes "github.com/tradevista/websights-backend/pkg/db/types"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

// subdomainAttempts bounds the collision-suffix retry loop on create.
const subdomainAttempts = 5

type siteRepository interface {
	Create(ctx context.Context, site *models.Site) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Site, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*models.Site, error)
	FindByCustomDomain(ctx context.Context, domain string) (*models.Site, error)
	Update(ctx context.Context, site *models.Site) error
	SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status string) error
}

// Service exposes tenant site operations.
type Service interface {
	CreateForOwner(ctx context.Context, ownerID uuid.UUID, businessName string, config map[string]any) (*models.Site, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Site, error)
	UpdateConfig(ctx context.Context, ownerID uuid.UUID, config map[string]any) (*models.Site, error)
	AttachCustomDomain(ctx context.Context, ownerID uuid.UUID, domain string) (*models.Site, error)
	SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status enums.SiteStatus) error
	ResolveByHost(ctx context.Context, host, baseDomain string) (*models.Site, error)
}

type service struct {
	repo siteRepository
}

// NewService builds the sites service.
func NewService(repo siteRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sites repository required")
	}
	return &service{repo: repo}, nil
}

// CreateForOwner provisions the user's single site. The subdomain is derived
// from the business name; collisions get a numeric suffix.
func (s *service) CreateForOwner(ctx context.Context, ownerID uuid.UUID, businessName string, config map[string]any) (*models.Site, error) {
	base := slug.Make(businessName)
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name yields an empty subdomain")
	}
	if config == nil {
		config = map[string]any{}
	}

	for attempt := 0; attempt < subdomainAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt+1)
		}

		site := &models.Site{
			OwnerID:   ownerID,
			Subdomain: candidate,
			Config:    dbtypes.JSONDoc(config),
			Status:    enums.SiteStatusDraft,
		}
		err := s.repo.Create(ctx, site)
		if err == nil {
			return site, nil
		}
		if db.IsUniqueViolation(err, "idx_sites_owner_id") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already has a site")
		}
		if db.IsUniqueViolation(err, "idx_sites_subdomain") {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating site")
	}
	return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not find a free subdomain")
}

func (s *service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Site, error) {
	site, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "site not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading site")
	}
	return site, nil
}

func (s *service) UpdateConfig(ctx context.Context, ownerID uuid.UUID, config map[string]any) (*models.Site, error) {
	if config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	site, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	site.Config = dbtypes.JSONDoc(config)
	if err := s.repo.Update(ctx, site); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating site config")
	}
	return site, nil
}

func (s *service) AttachCustomDomain(ctx context.Context, ownerID uuid.UUID, domain string) (*models.Site, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" || !strings.Contains(domain, ".") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a fully qualified domain is required")
	}

	site, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	site.CustomDomain = &domain
	if err := s.repo.Update(ctx, site); err != nil {
		if db.IsUniqueViolation(err, "idx_sites_custom_domain") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "domain is attached to another site")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attaching custom domain")
	}
	return site, nil
}

func (s *service) SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status enums.SiteStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid site status")
	}
	if err := s.repo.SetStatusByOwner(ctx, ownerID, string(status)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating site status")
	}
	return nil
}

// ResolveByHost maps an incoming Host header to a live site: either
// <subdomain>.<baseDomain> or a tenant's custom domain.
func (s *service) ResolveByHost(ctx context.Context, host, baseDomain string) (*models.Site, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	if host == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "host is required")
	}

	var site *models.Site
	var err error
	suffix := "." + strings.ToLower(baseDomain)
	if sub, ok := strings.CutSuffix(host, suffix); ok && !strings.Contains(sub, ".") {
		site, err = s.repo.FindBySubdomain(ctx, sub)
	} else {
		site, err = s.repo.FindByCustomDomain(ctx, host)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "site not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving site")
	}
	if site.Status != enums.SiteStatusLive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "site not found")
	}
	return site, nil
}
