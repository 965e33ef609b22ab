package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tradevista/websights-backend/api/middleware"
	"github.com/tradevista/websights-backend/internal/auth"
	"github.com/tradevista/websights-backend/pkg/db/models"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

type stubSiteService struct {
	site       *models.Site
	attachErr  error
	resolveErr error

	lastOwner      uuid.UUID
	lastDomain     string
	lastHost       string
	lastBaseDomain string
}

func (s *stubSiteService) CreateForOwner(ctx context.Context, ownerID uuid.UUID, businessName string, config map[string]any) (*models.Site, error) {
	return s.site, nil
}

func (s *stubSiteService) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Site, error) {
	return s.site, nil
}

func (s *stubSiteService) UpdateConfig(ctx context.Context, ownerID uuid.UUID, config map[string]any) (*models.Site, error) {
	return s.site, nil
}

func (s *stubSiteService) AttachCustomDomain(ctx context.Context, ownerID uuid.UUID, domain string) (*models.Site, error) {
	s.lastOwner = ownerID
	s.lastDomain = domain
	if s.attachErr != nil {
		return nil, s.attachErr
	}
	return s.site, nil
}

func (s *stubSiteService) SetStatusByOwner(ctx context.Context, ownerID uuid.UUID, status enums.SiteStatus) error {
	return nil
}

func (s *stubSiteService) ResolveByHost(ctx context.Context, host, baseDomain string) (*models.Site, error) {
	s.lastHost = host
	s.lastBaseDomain = baseDomain
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return s.site, nil
}

func withUserCaller(r *http.Request, userID uuid.UUID) *http.Request {
	caller := &auth.Caller{
		SubjectID: userID,
		Kind:      enums.SubjectKindUser,
		User:      &models.User{ID: userID},
	}
	return r.WithContext(middleware.WithCaller(r.Context(), caller))
}

func TestSiteAttachDomain(t *testing.T) {
	owner := uuid.New()
	svc := &stubSiteService{site: &models.Site{ID: uuid.New(), OwnerID: owner}}
	handler := SiteAttachDomain(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/domain", strings.NewReader(`{"domain":"joesplumbing.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withUserCaller(req, owner)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastOwner != owner {
		t.Fatal("owner not passed through")
	}
	if svc.lastDomain != "joesplumbing.com" {
		t.Fatalf("unexpected domain %q", svc.lastDomain)
	}
}

func TestSiteAttachDomainRequiresSession(t *testing.T) {
	svc := &stubSiteService{}
	handler := SiteAttachDomain(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/domain", strings.NewReader(`{"domain":"joesplumbing.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.lastDomain != "" {
		t.Fatal("service must not be called without a session")
	}
}

func TestSiteAttachDomainConflict(t *testing.T) {
	svc := &stubSiteService{attachErr: pkgerrors.New(pkgerrors.CodeConflict, "domain is attached to another site")}
	handler := SiteAttachDomain(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sites/domain", strings.NewReader(`{"domain":"taken.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withUserCaller(req, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSiteResolveByQueryHost(t *testing.T) {
	svc := &stubSiteService{site: &models.Site{ID: uuid.New(), Subdomain: "joesplumbing", Status: enums.SiteStatusLive}}
	handler := SiteResolve(svc, "websights.app", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/resolve?host=joesplumbing.websights.app", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.lastHost != "joesplumbing.websights.app" {
		t.Fatalf("unexpected host %q", svc.lastHost)
	}
	if svc.lastBaseDomain != "websights.app" {
		t.Fatalf("unexpected base domain %q", svc.lastBaseDomain)
	}

	var envelope struct {
		Data models.Site `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Subdomain != "joesplumbing" {
		t.Fatalf("unexpected site %+v", envelope.Data)
	}
}

func TestSiteResolveFallsBackToRequestHost(t *testing.T) {
	svc := &stubSiteService{site: &models.Site{ID: uuid.New(), Status: enums.SiteStatusLive}}
	handler := SiteResolve(svc, "websights.app", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/resolve", nil)
	req.Host = "joesplumbing.com"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastHost != "joesplumbing.com" {
		t.Fatalf("unexpected host %q", svc.lastHost)
	}
}

func TestSiteResolveUnknownHost(t *testing.T) {
	svc := &stubSiteService{resolveErr: pkgerrors.New(pkgerrors.CodeNotFound, "site not found")}
	handler := SiteResolve(svc, "websights.app", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/resolve?host=nobody.example.com", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
