package controllers

import (
	"net/http"

	"github.com/tradevista/websights-backend/api/middleware"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/auth"
	"github.com/tradevista/websights-backend/pkg/config"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type adminSetupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
}

// AdminAuthSetup creates the first administrator. It is rejected once any
// admin account exists.
func AdminAuthSetup(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adminSetupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminSetup(r.Context(), auth.LoginInput{Email: body.Email, Password: body.Password}, body.DisplayName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, middleware.AdminSessionCookie, result.Session.Token, result.Session.ExpiresAt)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"admin":      result.Admin,
			"expires_at": result.Session.ExpiresAt,
		})
	}
}

// AdminAuthLogin authenticates an administrator and sets the admin cookie.
func AdminAuthLogin(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminLogin(r.Context(), auth.LoginInput{Email: body.Email, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, middleware.AdminSessionCookie, result.Session.Token, result.Session.ExpiresAt)
		responses.WriteSuccess(w, map[string]any{
			"admin":      result.Admin,
			"expires_at": result.Session.ExpiresAt,
		})
	}
}

// AdminAuthLogout revokes the admin session and clears the cookie.
func AdminAuthLogout(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if token := cookieToken(r, middleware.AdminSessionCookie); token != "" {
			if err := svc.Logout(r.Context(), token); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		clearSessionCookie(w, cfg, middleware.AdminSessionCookie)
		responses.WriteSuccess(w, nil)
	}
}
