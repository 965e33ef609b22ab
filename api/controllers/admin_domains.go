package controllers

import (
	"net/http"

	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/domains"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

// DomainsDispatch executes one domain management action. The body is a
// tagged union: "action" names the operation and the matching sub-object
// carries its parameters.
func DomainsDispatch(svc domains.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "domains service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var req domains.Request
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Dispatch(r.Context(), caller.SubjectID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"action": req.Action,
			"result": result,
		})
	}
}
