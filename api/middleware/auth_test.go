package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tradevista/websights-backend/internal/auth"
	"github.com/tradevista/websights-backend/pkg/enums"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
)

func TestSessionAuthRejectsMissingCookie(t *testing.T) {
	resolver := &stubResolver{}
	handler := SessionAuth(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if resolver.calls != 0 {
		t.Fatalf("resolver should not be called without a cookie, got %d calls", resolver.calls)
	}
}

func TestSessionAuthRejectsInvalidToken(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")}
	handler := SessionAuth(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserSessionCookie, Value: "stale-token"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSessionAuthResolvesUserCookie(t *testing.T) {
	userID := uuid.New()
	resolver := &stubResolver{caller: &auth.Caller{SubjectID: userID, Kind: enums.SubjectKindUser}}

	var captured *auth.Caller
	handler := SessionAuth(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserSessionCookie, Value: "user-token"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured == nil || captured.SubjectID != userID {
		t.Fatalf("expected caller %s in context, got %+v", userID, captured)
	}
	if resolver.lastToken != "user-token" {
		t.Fatalf("expected user cookie token, got %q", resolver.lastToken)
	}
}

func TestSessionAuthPrefersAdminCookie(t *testing.T) {
	resolver := &stubResolver{caller: &auth.Caller{SubjectID: uuid.New(), Kind: enums.SubjectKindAdmin}}
	handler := SessionAuth(resolver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: UserSessionCookie, Value: "user-token"})
	req.AddCookie(&http.Cookie{Name: AdminSessionCookie, Value: "admin-token"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resolver.lastToken != "admin-token" {
		t.Fatalf("expected admin cookie to win, resolver saw %q", resolver.lastToken)
	}
}

func TestRequireAdminRejectsUserCaller(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	caller := &auth.Caller{SubjectID: uuid.New(), Kind: enums.SubjectKindUser}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithCaller(req.Context(), caller))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireAdminRejectsMissingCaller(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireAdminAllowsAdminCaller(t *testing.T) {
	handler := RequireAdmin(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	caller := &auth.Caller{SubjectID: uuid.New(), Kind: enums.SubjectKindAdmin}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithCaller(req.Context(), caller))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

type stubResolver struct {
	caller    *auth.Caller
	err       error
	calls     int
	lastToken string
}

func (s *stubResolver) ResolveCaller(ctx context.Context, rawToken string) (*auth.Caller, error) {
	s.calls++
	s.lastToken = rawToken
	if s.err != nil {
		return nil, s.err
	}
	if s.caller == nil {
		return nil, errors.New("no caller configured")
	}
	return s.caller, nil
}
