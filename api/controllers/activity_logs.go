package controllers

import (
	"net/http"
	"strings"

	"github.com/portal-harnasi/backend/api/middleware"
	"github.com/portal-harnasi/backend/api/responses"
	"github.com/portal-harnasi/backend/api/validators"
	"github.com/portal-harnasi/backend/internal/activity"
	"github.com/portal-harnasi/backend/pkg/enums"
	pkgerrors "github.com/portal-harnasi/backend/pkg/errors"
	"github.com/portal-harnasi/backend/pkg/logger"
	"github.com/portal-harnasi/backend/pkg/pagination"
)

// ListActivityLogs serves the admin-wide audit trail with filters.
func ListActivityLogs(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseActivityQuery(r, 25)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logs, meta, err := svc.ListAll(r.Context(), q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"logs":       logs,
			"pagination": meta,
		})
	}
}

// ListOwnActivityLogs serves a member their own audit trail.
func ListOwnActivityLogs(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		q, err := parseActivityQuery(r, 10)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logs, meta, err := svc.ListOwn(r.Context(), userID, q)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"logs":       logs,
			"pagination": meta,
		})
	}
}

func parseActivityQuery(r *http.Request, defaultLimit int) (activity.Query, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<30)
	if err != nil {
		return activity.Query{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return activity.Query{}, err
	}

	q := activity.Query{Page: pagination.Params{Page: page, Limit: limit}}

	userID, err := validators.ParseQueryInt64(r, "userId")
	if err != nil {
		return activity.Query{}, err
	}
	q.UserID = userID

	if raw := strings.TrimSpace(r.URL.Query().Get("action")); raw != "" {
		action, err := enums.ParseAction(raw)
		if err != nil {
			return activity.Query{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown action filter").
				WithDetails(map[string]any{"field": "action"})
		}
		q.Action = &action
	}

	start, err := validators.ParseQueryDate(r, "startDate")
	if err != nil {
		return activity.Query{}, err
	}
	q.StartDate = start

	end, err := validators.ParseQueryDate(r, "endDate")
	if err != nil {
		return activity.Query{}, err
	}
	q.EndDate = end

	return q, nil
}
