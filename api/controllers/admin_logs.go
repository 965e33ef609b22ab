package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tradevista/websights-backend/api/responses"
	"github.com/tradevista/websights-backend/api/validators"
	"github.com/tradevista/websights-backend/internal/audit"
	pkgerrors "github.com/tradevista/websights-backend/pkg/errors"
	"github.com/tradevista/websights-backend/pkg/logger"
)

// LogsList returns a filtered window of activity logs.
func LogsList(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := audit.ListInput{
			Type:   r.URL.Query().Get("type"),
			Action: r.URL.Query().Get("action"),
			Search: r.URL.Query().Get("search"),
			Limit:  limit,
			Offset: offset,
			Cursor: r.URL.Query().Get("cursor"),
		}

		if raw := r.URL.Query().Get("actor"); raw != "" {
			actorID, err := uuid.Parse(raw)
			if err != nil {
				err := pkgerrors.New(pkgerrors.CodeValidation, "actor must be a uuid")
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.Actor = &actorID
		}
		if input.Since, err = parseQueryTime(r, "since"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Until, err = parseQueryTime(r, "until"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// LogsStats returns per-type log volume for the requested window.
func LogsStats(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "audit service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		hours, err := validators.ParseQueryInt(r, "hours", 24, 1, 24*90)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), time.Duration(hours)*time.Hour)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"window_hours": hours,
			"stats":        stats,
		})
	}
}

func parseQueryTime(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "timestamp must be RFC3339").WithDetails(map[string]any{"field": key})
	}
	return ts, nil
}
