package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bloodbank-backend/api/controllers"
	"github.com/angelmondragon/bloodbank-backend/api/middleware"
	"github.com/angelmondragon/bloodbank-backend/internal/alerts"
	"github.com/angelmondragon/bloodbank-backend/internal/dashboard"
	"github.com/angelmondragon/bloodbank-backend/internal/donors"
	"github.com/angelmondragon/bloodbank-backend/internal/hospitals"
	"github.com/angelmondragon/bloodbank-backend/internal/inventory"
	"github.com/angelmondragon/bloodbank-backend/internal/recipients"
	"github.com/angelmondragon/bloodbank-backend/internal/requests"
	"github.com/angelmondragon/bloodbank-backend/internal/transactions"
	"github.com/angelmondragon/bloodbank-backend/pkg/config"
	"github.com/angelmondragon/bloodbank-backend/pkg/logger"
	"github.com/angelmondragon/bloodbank-backend/pkg/metrics"
	"github.com/angelmondragon/bloodbank-backend/pkg/redis"
)

// Services bundles the domain services behind the REST surface.
type Services struct {
	Donors       donors.Service
	Recipients   recipients.Service
	Hospitals    hospitals.Service
	Inventory    inventory.Service
	Requests     requests.Service
	Transactions transactions.Service
	Alerts       alerts.Service
	Dashboard    dashboard.Service
}

type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Services Services
	// Checks are pinged by /health/ready; nil entries are skipped.
	Checks map[string]controllers.Pinger
	// Idempotency must be a true nil interface when redis is disabled.
	Idempotency redis.IdempotencyStore
	// Gatherer serves /metrics when metrics are enabled on the API process.
	Gatherer prometheus.Gatherer
	Metrics  *metrics.HTTPMetrics
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger
	svc := p.Services

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Checks))
	})

	if cfg.Metrics.Enabled && p.Gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(p.Idempotency, logg))

		r.Route("/donors", func(r chi.Router) {
			r.Get("/", controllers.DonorList(svc.Donors, logg))
			r.Post("/", controllers.DonorCreate(svc.Donors, logg))
			r.Get("/{id}", controllers.DonorGet(svc.Donors, logg))
			r.Patch("/{id}", controllers.DonorUpdate(svc.Donors, logg))
		})

		r.Route("/recipients", func(r chi.Router) {
			r.Get("/", controllers.RecipientList(svc.Recipients, logg))
			r.Post("/", controllers.RecipientCreate(svc.Recipients, logg))
			r.Get("/{id}", controllers.RecipientGet(svc.Recipients, logg))
			r.Patch("/{id}", controllers.RecipientUpdate(svc.Recipients, logg))
		})

		r.Route("/hospitals", func(r chi.Router) {
			r.Get("/", controllers.HospitalList(svc.Hospitals, logg))
			r.Post("/", controllers.HospitalCreate(svc.Hospitals, logg))
			r.Get("/{id}", controllers.HospitalGet(svc.Hospitals, logg))
			r.Patch("/{id}", controllers.HospitalUpdate(svc.Hospitals, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(svc.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(svc.Inventory, logg))
			r.Get("/summary", controllers.InventorySummary(svc.Inventory, logg))
			r.Get("/expiring", controllers.InventoryExpiring(svc.Inventory, logg))
			r.Get("/{id}", controllers.InventoryGet(svc.Inventory, logg))
			r.Patch("/{id}/status", controllers.InventoryUpdateStatus(svc.Inventory, logg))
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/", controllers.RequestList(svc.Requests, logg))
			r.Post("/", controllers.RequestCreate(svc.Requests, logg))
			r.Get("/{id}", controllers.RequestGet(svc.Requests, logg))
			r.Patch("/{id}/status", controllers.RequestUpdateStatus(svc.Requests, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(svc.Transactions, logg))
			r.Post("/", controllers.TransactionCreate(svc.Transactions, logg))
			r.Post("/donations", controllers.TransactionRecordDonation(svc.Transactions, logg))
			r.Get("/{id}", controllers.TransactionGet(svc.Transactions, logg))
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.AlertList(svc.Alerts, logg))
			r.Post("/", controllers.AlertCreate(svc.Alerts, logg))
			r.Get("/{id}", controllers.AlertGet(svc.Alerts, logg))
			r.Post("/{id}/resolve", controllers.AlertResolve(svc.Alerts, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(svc.Dashboard, logg))
	})

	return r
}
