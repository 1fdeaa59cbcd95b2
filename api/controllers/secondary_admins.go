package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldbook-dev/fieldbook-backend/api/middleware"
	"github.com/fieldbook-dev/fieldbook-backend/api/responses"
	"github.com/fieldbook-dev/fieldbook-backend/api/validators"
	"github.com/fieldbook-dev/fieldbook-backend/internal/identity"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
)

func ListSecondaryAdmins(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admins, err := svc.ListSecondaryAdmins(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, admins)
	}
}

func CreateSecondaryAdmin(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload identity.CreateSecondaryAdminInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateSecondaryAdmin(r.Context(), middleware.ActorFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func UpdateSecondaryAdmin(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "adminId"), "adminId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload identity.UpdateSecondaryAdminInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		admin, err := svc.UpdateSecondaryAdmin(r.Context(), middleware.ActorFromContext(r.Context()), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, admin)
	}
}
