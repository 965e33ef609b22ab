package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/emails"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type createTemplateRequest struct {
	TemplateKey string  `json:"template_key" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	BodyHTML    string  `json:"body_html" validate:"required"`
	BodyText    *string `json:"body_text"`
}

type updateTemplateRequest struct {
	Subject  *string `json:"subject"`
	BodyHTML *string `json:"body_html"`
	BodyText *string `json:"body_text"`
}

type previewTemplateRequest struct {
	Vars map[string]string `json:"vars"`
}

// EmailsList returns all email templates.
func EmailsList(svc emails.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "emails service unavailable")
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

// EmailsCreate adds an email template.
func EmailsCreate(svc emails.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "emails service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body createTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Create(r.Context(), caller.SubjectID, emails.CreateInput{
			TemplateKey: body.TemplateKey,
			Subject:     body.Subject,
			BodyHTML:    body.BodyHTML,
			BodyText:    body.BodyText,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// EmailsUpdate patches a template by key.
func EmailsUpdate(svc emails.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "emails service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body updateTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), caller.SubjectID, chi.URLParam(r, "key"), emails.UpdateInput{
			Subject:  body.Subject,
			BodyHTML: body.BodyHTML,
			BodyText: body.BodyText,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// EmailsDelete removes a template.
func EmailsDelete(svc emails.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "emails service unavailable")
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

// EmailsPreview renders a template with the supplied placeholder values.
func EmailsPreview(svc emails.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "emails service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body previewTemplateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rendered, err := svc.Render(r.Context(), chi.URLParam(r, "key"), body.Vars)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rendered)
	}
}
