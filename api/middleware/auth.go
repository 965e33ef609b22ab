package middleware

import (
	"context"
	"net/http"

	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/internal/auth"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

// Cookie names for the two session audiences.
const (
	UserSessionCookie  = "tv_session"
	AdminSessionCookie = "tv_admin_session"
)

type callerResolver interface {
	ResolveCaller(ctx context.Context, rawToken string) (*auth.Caller, error)
}

// SessionAuth resolves the session cookie into a request-scoped identity.
// The admin cookie wins when both are present.
func SessionAuth(resolver callerResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			caller, err := resolver.ResolveCaller(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithCaller(r.Context(), caller)
			if logg != nil {
				if caller.IsAdmin() {
					ctx = logg.WithAdminID(ctx, caller.SubjectID.String())
				} else {
					ctx = logg.WithUserID(ctx, caller.SubjectID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose resolved identity is not an admin.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := CallerFromContext(r.Context())
			if caller == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !caller.IsAdmin() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(AdminSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if cookie, err := r.Cookie(UserSessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
