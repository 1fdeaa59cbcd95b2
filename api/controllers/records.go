package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fieldbook-dev/fieldbook-backend/api/middleware"
	"github.com/fieldbook-dev/fieldbook-backend/api/responses"
	"github.com/fieldbook-dev/fieldbook-backend/api/validators"
	"github.com/fieldbook-dev/fieldbook-backend/internal/records"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
)

func ListRecords(svc *records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := recordsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), middleware.ActorFromContext(r.Context()), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, rows)
	}
}

func CreateRecord(svc *records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload records.CreateRecordInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), middleware.ActorFromContext(r.Context()), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func UpdateRecord(svc *records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "recordId"), "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload records.UpdateRecordInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func DeleteRecord(svc *records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "recordId"), "recordId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func ExportRecords(svc *records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := recordsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Export(r.Context(), middleware.ActorFromContext(r.Context()), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func recordsQuery(r *http.Request) (records.ListRecordsQuery, error) {
	var query records.ListRecordsQuery

	agentID, err := validators.ParseQueryUUID(r, "agentId")
	if err != nil {
		return query, err
	}
	query.AgentID = agentID

	query.PersonType = validators.ParseQueryString(r, "personType")
	query.Town = validators.ParseQueryString(r, "town")
	query.Area = validators.ParseQueryString(r, "area")
	if search := validators.ParseQueryString(r, "search"); search != nil {
		query.Search = *search
	}

	from, err := validators.ParseQueryTime(r, "startDate")
	if err != nil {
		return query, err
	}
	query.CreatedFrom = from

	to, err := validators.ParseQueryTime(r, "endDate")
	if err != nil {
		return query, err
	}
	query.CreatedTo = endOfDayForBareDate(r, "endDate", to)

	return query, nil
}

// endOfDayForBareDate widens a date-only upper bound so the whole day stays
// inside the inclusive range.
func endOfDayForBareDate(r *http.Request, key string, ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if len(raw) != len("2006-01-02") {
		return ts
	}
	widened := ts.Add(24*time.Hour - time.Nanosecond)
	return &widened
}
