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

type signupRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	Name         string  `json:"name" validate:"required"`
	Trade        string  `json:"trade" validate:"required"`
	BusinessName string  `json:"business_name" validate:"required"`
	Phone        *string `json:"phone"`
	City         *string `json:"city"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthSignup registers a tenant, provisions their site, and starts a session.
func AuthSignup(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body signupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), auth.SignupInput{
			Email:        body.Email,
			Password:     body.Password,
			Name:         body.Name,
			Trade:        body.Trade,
			BusinessName: body.BusinessName,
			Phone:        body.Phone,
			City:         body.City,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, middleware.UserSessionCookie, result.Session.Token, result.Session.ExpiresAt)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"user":           result.User,
			"site":           result.Site,
			"founder_number": result.FounderNumber,
			"expires_at":     result.Session.ExpiresAt,
		})
	}
}

// AuthLogin authenticates a tenant and sets the session cookie.
func AuthLogin(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
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

		result, err := svc.Login(r.Context(), auth.LoginInput{Email: body.Email, Password: body.Password})
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

// AuthLogout revokes the current session and clears the cookie. Requests
// without a cookie still succeed.
func AuthLogout(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if token := cookieToken(r, middleware.UserSessionCookie); token != "" {
			if err := svc.Logout(r.Context(), token); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		clearSessionCookie(w, cfg, middleware.UserSessionCookie)
		responses.WriteSuccess(w, nil)
	}
}

// AuthMe returns the identity behind the session cookie.
func AuthMe(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middleware.CallerFromContext(r.Context())
		if caller == nil {
			err := pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if caller.IsAdmin() {
			responses.WriteSuccess(w, map[string]any{"admin": caller.Admin})
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": caller.User})
	}
}
