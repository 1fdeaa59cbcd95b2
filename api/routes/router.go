package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fieldbook-dev/fieldbook-backend/api/controllers"
	"github.com/fieldbook-dev/fieldbook-backend/api/middleware"
	"github.com/fieldbook-dev/fieldbook-backend/internal/columns"
	"github.com/fieldbook-dev/fieldbook-backend/internal/identity"
	"github.com/fieldbook-dev/fieldbook-backend/internal/records"
	"github.com/fieldbook-dev/fieldbook-backend/internal/stats"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/auth/session"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/config"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/db"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/logger"
	"github.com/fieldbook-dev/fieldbook-backend/pkg/metrics"
	pkgredis "github.com/fieldbook-dev/fieldbook-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	collector *metrics.HTTPMetrics,
	sessions session.AccessSessionChecker,
	identitySvc *identity.Service,
	recordsSvc *records.Service,
	columnsSvc *columns.Service,
	statsSvc *stats.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(collector),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	var idemStore pkgredis.IdempotencyStore
	var redisP pkgredis.Pinger
	if redisClient != nil {
		idemStore = redisClient
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(identitySvc, logg))
		r.Post("/refresh", controllers.AuthRefresh(identitySvc, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, identitySvc, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Post("/auth/logout", controllers.AuthLogout(identitySvc, logg))

		r.Route("/records", func(r chi.Router) {
			r.Get("/", controllers.ListRecords(recordsSvc, logg))
			r.Post("/", controllers.CreateRecord(recordsSvc, logg))
			r.Get("/export", controllers.ExportRecords(recordsSvc, logg))
			r.Put("/{recordId}", controllers.UpdateRecord(recordsSvc, logg))
			r.Delete("/{recordId}", controllers.DeleteRecord(recordsSvc, logg))
		})

		r.Route("/columns", func(r chi.Router) {
			r.Get("/", controllers.ListColumns(columnsSvc, logg))
			r.Post("/", controllers.CreateColumn(columnsSvc, logg))
			r.Put("/{columnId}", controllers.UpdateColumn(columnsSvc, logg))
			r.Delete("/{columnId}", controllers.DeactivateColumn(columnsSvc, logg))
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", controllers.ListAgents(identitySvc, logg))
			r.Post("/", controllers.CreateAgent(identitySvc, logg))
			r.Put("/{agentId}", controllers.UpdateAgent(identitySvc, logg))
		})

		r.Route("/secondary-admins", func(r chi.Router) {
			r.Get("/", controllers.ListSecondaryAdmins(identitySvc, logg))
			r.Post("/", controllers.CreateSecondaryAdmin(identitySvc, logg))
			r.Put("/{adminId}", controllers.UpdateSecondaryAdmin(identitySvc, logg))
		})

		r.Get("/stats", controllers.StatsOverview(statsSvc, logg))
	})

	return r
}
