package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldbook-dev/fieldbook-backend/api/middleware"
	"github.com/fieldbook-dev/fieldbook-backend/api/responses"
	"github.com/fieldbook-dev/fieldbook-backend/api/validators"
	"github.com/fieldbook-dev/fieldbook-backend/internal/columns"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
)

func ListColumns(svc *columns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeInactive := validators.ParseQueryBool(r, "includeInactive")

		cols, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cols)
	}
}

func CreateColumn(svc *columns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload columns.CreateColumnInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		col, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, col)
	}
}

func UpdateColumn(svc *columns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "columnId"), "columnId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload columns.UpdateColumnInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		col, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, col)
	}
}

func DeactivateColumn(svc *columns.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "columnId"), "columnId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deactivated": true})
	}
}
