package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/merch"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type createMockupRequest struct {
	ProductID  int64   `json:"product_id" validate:"required"`
	VariantIDs []int64 `json:"variant_ids" validate:"required,min=1"`
	ImageURL   string  `json:"image_url" validate:"required,url"`
}

// PrintfulProducts lists catalog products, optionally scoped to a category.
func PrintfulProducts(svc merch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "merch service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := validators.ParseQueryInt(r, "category_id", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), int64(categoryID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// PrintfulProduct returns one catalog product with its variants.
func PrintfulProduct(svc merch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "merch service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			err := pkgerrors.New(pkgerrors.CodeValidation, "product id must be numeric")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// PrintfulMockupCreate starts a mockup generation task.
func PrintfulMockupCreate(svc merch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "merch service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body createMockupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		task, err := svc.CreateMockup(r.Context(), caller.SubjectID, merch.MockupInput{
			ProductID:  body.ProductID,
			VariantIDs: body.VariantIDs,
			ImageURL:   body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, task)
	}
}

// PrintfulMockupStatus polls a mockup task by key.
func PrintfulMockupStatus(svc merch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "merch service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetMockup(r.Context(), chi.URLParam(r, "taskKey"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
