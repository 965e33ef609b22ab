package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/trades"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type createTradeRequest struct {
	Slug             string         `json:"slug" validate:"required"`
	Name             string         `json:"name" validate:"required"`
	Description      *string        `json:"description"`
	Icon             *string        `json:"icon"`
	DemoBusinessName *string        `json:"demo_business_name"`
	DemoCity         *string        `json:"demo_city"`
	DemoTagline      *string        `json:"demo_tagline"`
	DemoConfig       map[string]any `json:"demo_config"`
}

type updateTradeRequest struct {
	Name             *string         `json:"name"`
	Description      *string         `json:"description"`
	Icon             *string         `json:"icon"`
	DemoBusinessName *string         `json:"demo_business_name"`
	DemoCity         *string         `json:"demo_city"`
	DemoTagline      *string         `json:"demo_tagline"`
	DemoConfig       *map[string]any `json:"demo_config"`
}

// TradesCreate adds a trade category.
func TradesCreate(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trades service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body createTradeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), caller.SubjectID, trades.CreateInput{
			Slug:             body.Slug,
			Name:             body.Name,
			Description:      body.Description,
			Icon:             body.Icon,
			DemoBusinessName: body.DemoBusinessName,
			DemoCity:         body.DemoCity,
			DemoTagline:      body.DemoTagline,
			DemoConfig:       body.DemoConfig,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// TradesUpdate patches a trade category by slug.
func TradesUpdate(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trades service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body updateTradeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), caller.SubjectID, chi.URLParam(r, "slug"), trades.UpdateInput{
			Name:             body.Name,
			Description:      body.Description,
			Icon:             body.Icon,
			DemoBusinessName: body.DemoBusinessName,
			DemoCity:         body.DemoCity,
			DemoTagline:      body.DemoTagline,
			DemoConfig:       body.DemoConfig,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// TradesDelete removes a trade category.
func TradesDelete(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "trades service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		if err := svc.Delete(r.Context(), caller.SubjectID, chi.URLParam(r, "slug")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}
