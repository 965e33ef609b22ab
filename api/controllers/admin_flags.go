package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/flags"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type createFlagRequest struct {
	FlagKey     string  `json:"flag_key" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	IsEnabled   bool    `json:"is_enabled"`
}

type updateFlagRequest struct {
	IsEnabled bool `json:"is_enabled"`
}

// FlagsList returns all feature flags.
func FlagsList(svc flags.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "flags service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// FlagsCreate registers a new feature flag.
func FlagsCreate(svc flags.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "flags service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body createFlagRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), caller.SubjectID, flags.CreateInput{
			FlagKey:     body.FlagKey,
			Name:        body.Name,
			Description: body.Description,
			IsEnabled:   body.IsEnabled,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// FlagsUpdate sets a flag to an explicit state.
func FlagsUpdate(svc flags.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "flags service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body updateFlagRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.SetEnabled(r.Context(), caller.SubjectID, chi.URLParam(r, "key"), body.IsEnabled)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// FlagsToggle flips a flag's current state.
func FlagsToggle(svc flags.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "flags service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		key := chi.URLParam(r, "key")
		enabled, err := svc.IsEnabled(r.Context(), key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.SetEnabled(r.Context(), caller.SubjectID, key, !enabled)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// FlagsDelete removes a feature flag.
func FlagsDelete(svc flags.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "flags service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		if err := svc.Delete(r.Context(), caller.SubjectID, chi.URLParam(r, "key")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
