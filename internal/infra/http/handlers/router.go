package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/asesor-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	Leads          *LeadHandler
	Appointments   *AppointmentHandler
	Advisors       *AdvisorHandler
	Health         *HealthHandler
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", cfg.Leads.List)
		r.Post("/", cfg.Leads.Create)
		r.Get("/{id}", cfg.Leads.Get)
		r.Patch("/{id}/status", cfg.Leads.UpdateStatus)
		r.Post("/{id}/close", cfg.Leads.Close)
	})

	r.Route("/appointments/{id}", func(r chi.Router) {
		r.Post("/assign", cfg.Appointments.Assign)
		r.Post("/confirm", cfg.Appointments.Confirm)
		r.Post("/feedback", cfg.Appointments.Feedback)
	})

	r.Route("/rental-applications/{id}", func(r chi.Router) {
		r.Post("/assign", cfg.Appointments.AssignRental)
		r.Post("/feedback", cfg.Appointments.RentalFeedback)
	})

	r.Route("/advisors/{id}", func(r chi.Router) {
		r.Get("/profile", cfg.Advisors.GetProfile)
		r.Put("/profile", cfg.Advisors.UpdateProfile)
		r.Post("/metrics", cfg.Advisors.IncrementMetrics)
		r.Get("/activity", cfg.Advisors.Activity)
	})

	return r
}
