package controllers

import (
	"net/http"

	"github.com/tradevista/websights-backend/api/middleware"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/internal/auth"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

// requireCaller returns the resolved identity or writes a 401 and returns nil.
func requireCaller(w http.ResponseWriter, r *http.Request, logg *logger.Logger) *auth.Caller {
	caller := middleware.CallerFromContext(r.Context())
	if caller == nil {
		err := pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		responses.WriteError(r.Context(), logg, w, err)
		return nil
	}
	return caller
}
