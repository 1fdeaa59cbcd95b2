package controllers

import (
	"net/http"
	"strings"

	"github.com/fieldbook-dev/fieldbook-backend/api/middleware"
	"github.com/fieldbook-dev/fieldbook-backend/api/responses"
	"github.com/fieldbook-dev/fieldbook-backend/internal/stats"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
)

func StatsOverview(svc *stats.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := strings.TrimSpace(r.URL.Query().Get("period"))

		result, err := svc.Overview(r.Context(), middleware.ActorFromContext(r.Context()), period)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
