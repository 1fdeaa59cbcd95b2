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

func ListAgents(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agents, err := svc.ListAgents(r.Context(), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agents)
	}
}

func CreateAgent(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload identity.CreateAgentInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateAgent(r.Context(), middleware.ActorFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func UpdateAgent(svc *identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "agentId"), "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload identity.UpdateAgentInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.UpdateAgent(r.Context(), middleware.ActorFromContext(r.Context()), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, agent)
	}
}
