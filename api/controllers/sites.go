package controllers

import (
	"net/http"

	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/generation"
	"github.com/tradevista/websights-backend/internal/sites"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

type generateSiteRequest struct {
	BusinessName string `json:"business_name"`
	Trade        string `json:"trade"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
}

type modifySiteRequest struct {
	Instruction string `json:"instruction" validate:"required"`
}

type attachDomainRequest struct {
	Domain string `json:"domain" validate:"required"`
}

// SiteGenerate regenerates the caller's site config. Fields omitted from the
// body fall back to the profile captured at signup.
func SiteGenerate(gen generation.Service, siteSvc sites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gen == nil || siteSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "sites service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body generateSiteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := generation.GenerateInput{
			BusinessName: body.BusinessName,
			Trade:        body.Trade,
			City:         body.City,
			Phone:        body.Phone,
		}
		if user := caller.User; user != nil {
			if input.BusinessName == "" {
				input.BusinessName = user.BusinessName
			}
			if input.Trade == "" {
				input.Trade = user.Trade
			}
			if input.City == "" && user.City != nil {
				input.City = *user.City
			}
			if input.Phone == "" && user.Phone != nil {
				input.Phone = *user.Phone
			}
		}

		result, err := gen.Generate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		site, err := siteSvc.UpdateConfig(r.Context(), caller.SubjectID, result.Config)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"site":       site,
			"from_model": result.FromModel,
		})
	}
}

// SiteModify applies a natural-language instruction to the current config.
func SiteModify(gen generation.Service, siteSvc sites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gen == nil || siteSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "sites service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body modifySiteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		site, err := siteSvc.GetByOwner(r.Context(), caller.SubjectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := gen.Modify(r.Context(), map[string]any(site.Config), body.Instruction)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		site, err = siteSvc.UpdateConfig(r.Context(), caller.SubjectID, updated)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, site)
	}
}

// SiteAttachDomain points a tenant-owned domain at the caller's site.
func SiteAttachDomain(siteSvc sites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if siteSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "sites service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		var body attachDomainRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		site, err := siteSvc.AttachCustomDomain(r.Context(), caller.SubjectID, body.Domain)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, site)
	}
}

// SiteResolve maps a public hostname to the live site it serves. The site
// renderer calls this on every request, so it takes no session.
func SiteResolve(siteSvc sites.Service, baseDomain string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if siteSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "sites service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		host := r.URL.Query().Get("host")
		if host == "" {
			host = r.Host
		}

		site, err := siteSvc.ResolveByHost(r.Context(), host, baseDomain)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, site)
	}
}

// SiteMe returns the caller's site.
func SiteMe(siteSvc sites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if siteSvc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "sites service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		caller := requireCaller(w, r, logg)
		if caller == nil {
			return
		}

		site, err := siteSvc.GetByOwner(r.Context(), caller.SubjectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, site)
	}
}
