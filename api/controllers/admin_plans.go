package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/plans"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type createPlanRequest struct {
	PlanKey       string           `json:"plan_key" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	MonthlyPrice  decimal.Decimal  `json:"monthly_price"`
	YearlyPrice   *decimal.Decimal `json:"yearly_price"`
	TrialDays     int              `json:"trial_days"`
	Features      []string         `json:"features"`
	Limits        map[string]any   `json:"limits"`
	StripePriceID *string          `json:"stripe_price_id"`
}

type updatePlanRequest struct {
	Name          *string          `json:"name"`
	MonthlyPrice  *decimal.Decimal `json:"monthly_price"`
	YearlyPrice   *decimal.Decimal `json:"yearly_price"`
	TrialDays     *int             `json:"trial_days"`
	Features      *[]string        `json:"features"`
	Limits        *map[string]any  `json:"limits"`
	StripePriceID *string          `json:"stripe_price_id"`
}

// PlansList returns all pricing plans.
func PlansList(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "plans service unavailable")
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

// PlansCreate adds a pricing plan.
func PlansCreate(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "plans service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body createPlanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), caller.SubjectID, plans.CreateInput{
			PlanKey:       body.PlanKey,
			Name:          body.Name,
			MonthlyPrice:  body.MonthlyPrice,
			YearlyPrice:   body.YearlyPrice,
			TrialDays:     body.TrialDays,
			Features:      body.Features,
			Limits:        body.Limits,
			StripePriceID: body.StripePriceID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// PlansUpdate patches a pricing plan by key.
func PlansUpdate(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "plans service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body updatePlanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), caller.SubjectID, chi.URLParam(r, "key"), plans.UpdateInput{
			Name:          body.Name,
			MonthlyPrice:  body.MonthlyPrice,
			YearlyPrice:   body.YearlyPrice,
			TrialDays:     body.TrialDays,
			Features:      body.Features,
			Limits:        body.Limits,
			StripePriceID: body.StripePriceID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// PlansDelete removes a pricing plan.
func PlansDelete(svc plans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "plans service unavailable")
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
