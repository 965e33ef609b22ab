package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/cms"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type createContentRequest struct {
	Key         string  `json:"key" validate:"required"`
	Value       string  `json:"value" validate:"required"`
	ContentType string  `json:"content_type"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type updateContentRequest struct {
	Value       *string `json:"value"`
	ContentType *string `json:"content_type"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// CMSList returns CMS content, optionally filtered by category.
func CMSList(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CMSCreate adds a content entry.
func CMSCreate(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body createContentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), caller.SubjectID, cms.CreateInput{
			Key:         body.Key,
			Value:       body.Value,
			ContentType: body.ContentType,
			Description: body.Description,
			Category:    body.Category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// CMSUpdate patches a content entry by key.
func CMSUpdate(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body updateContentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), caller.SubjectID, chi.URLParam(r, "key"), cms.UpdateInput{
			Value:       body.Value,
			ContentType: body.ContentType,
			Description: body.Description,
			Category:    body.Category,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CMSDelete removes a content entry by key.
func CMSDelete(svc cms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cms service unavailable")
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
