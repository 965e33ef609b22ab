package sites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type stubSiteRepo struct {
	createErrs    []error
	createdSites  []*models.Site
	ownerRow      *models.Site
	ownerErr      error
	subdomainRow  *models.Site
	customRow     *models.Site
	updateErr     error
	updated       *models.Site
	statusErr     error
	lastStatus    string
	statusOwnerID uuid.UUID
}

func (s *stubSiteRepo) Create(ctx context.Context, site *models.Site) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	s.createdSites = append(s.createdSites, site)
	return nil
}

func (s *stubSiteRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Site, error) {
	if s.ownerErr != nil {
		return nil, s.ownerErr
	}
	if s.ownerRow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.ownerRow, nil
}

func (s *stubSiteRepo) FindBySubdomain(ctx context.Context, subdomain string) (*models.Site, error) {
	if s.subdomainRow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.subdomainRow, nil
}

func (s *stubSiteRepo) FindByCustomDomain(ctx context.Context, domain string) (*models.Site, error) {
	if s.customRow == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.customRow, nil
}

func (s *stubSiteRepo) Update(ctx context.Context, site *models.Site) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = site
	return nil
}

func (s *stubSiteRepo) SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status string) error {
	if s.statusErr != nil {
		return s.statusErr
	}
	s.statusOwnerID = ownerID
	s.lastStatus = status
	return nil
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func TestCreateForOwnerSlugsSubdomain(t *testing.T) {
	repo := &stubSiteRepo{}
	svc, _ := NewService(repo)

	site, err := svc.CreateForOwner(context.Background(), uuid.New(), "Joe's Plumbing & Heating", nil)
	if err != nil {
		t.Fatalf("CreateForOwner returned error: %v", err)
	}
	if site.Subdomain != "joe-s-plumbing-and-heating" {
		t.Fatalf("unexpected subdomain %q", site.Subdomain)
	}
	if site.Status != enums.SiteStatusDraft {
		t.Fatalf("new site must start draft, got %s", site.Status)
	}
}

func TestCreateForOwnerRetriesOnSubdomainCollision(t *testing.T) {
	repo := &stubSiteRepo{createErrs: []error{uniqueViolation("idx_sites_subdomain"), nil}}
	svc, _ := NewService(repo)

	site, err := svc.CreateForOwner(context.Background(), uuid.New(), "Joes Plumbing", nil)
	if err != nil {
		t.Fatalf("CreateForOwner returned error: %v", err)
	}
	if site.Subdomain != "joes-plumbing-2" {
		t.Fatalf("expected suffixed subdomain, got %q", site.Subdomain)
	}
}

func TestCreateForOwnerSecondSiteConflicts(t *testing.T) {
	repo := &stubSiteRepo{createErrs: []error{uniqueViolation("idx_sites_owner_id")}}
	svc, _ := NewService(repo)

	_, err := svc.CreateForOwner(context.Background(), uuid.New(), "Joes Plumbing", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAttachCustomDomainValidation(t *testing.T) {
	svc, _ := NewService(&stubSiteRepo{ownerRow: &models.Site{}})

	_, err := svc.AttachCustomDomain(context.Background(), uuid.New(), "not-a-domain")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAttachCustomDomainTakenElsewhere(t *testing.T) {
	repo := &stubSiteRepo{
		ownerRow:  &models.Site{Subdomain: "joes"},
		updateErr: uniqueViolation("idx_sites_custom_domain"),
	}
	svc, _ := NewService(repo)

	_, err := svc.AttachCustomDomain(context.Background(), uuid.New(), "joesplumbing.com")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestResolveByHostSubdomain(t *testing.T) {
	repo := &stubSiteRepo{subdomainRow: &models.Site{Subdomain: "joes", Status: enums.SiteStatusLive}}
	svc, _ := NewService(repo)

	site, err := svc.ResolveByHost(context.Background(), "joes.websights.app:443", "websights.app")
	if err != nil {
		t.Fatalf("ResolveByHost returned error: %v", err)
	}
	if site.Subdomain != "joes" {
		t.Fatalf("unexpected site %+v", site)
	}
}

func TestResolveByHostCustomDomain(t *testing.T) {
	domain := "joesplumbing.com"
	repo := &stubSiteRepo{customRow: &models.Site{CustomDomain: &domain, Status: enums.SiteStatusLive}}
	svc, _ := NewService(repo)

	site, err := svc.ResolveByHost(context.Background(), "JoesPlumbing.com", "websights.app")
	if err != nil {
		t.Fatalf("ResolveByHost returned error: %v", err)
	}
	if site.CustomDomain == nil || *site.CustomDomain != domain {
		t.Fatalf("unexpected site %+v", site)
	}
}

func TestResolveByHostDraftSiteHidden(t *testing.T) {
	repo := &stubSiteRepo{subdomainRow: &models.Site{Subdomain: "joes", Status: enums.SiteStatusDraft}}
	svc, _ := NewService(repo)

	_, err := svc.ResolveByHost(context.Background(), "joes.websights.app", "websights.app")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("draft sites must 404, got %v", err)
	}
}

func TestSetStatusByOwnerValidatesStatus(t *testing.T) {
	svc, _ := NewService(&stubSiteRepo{})

	err := svc.SetStatusByOwner(context.Background(), uuid.New(), enums.SiteStatus("archived"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
