package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tradevista/websights-backend/api/middleware"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/auth"
	"github.com/tradevista/websights-backend/internal/users"
	"github.com/tradevista/websights-backend/pkg/config"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

// UsersList returns a page of tenant accounts plus founder slot usage.
func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		founders, err := svc.FounderAvailability(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"users":    page,
			"founders": founders,
		})
	}
}

// UserImpersonate issues a tenant session for the target user and sets it as
// the user cookie. The admin cookie stays untouched so the admin session
// continues to win on admin routes.
func UserImpersonate(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		targetID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			err := pkgerrors.New(pkgerrors.CodeValidation, "user id must be a uuid")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Impersonate(r.Context(), caller.SubjectID, targetID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, middleware.UserSessionCookie, result.Session.Token, result.Session.ExpiresAt)
		responses.WriteSuccess(w, map[string]any{
			"user":       result.User,
			"expires_at": result.Session.ExpiresAt,
		})
	}
}
