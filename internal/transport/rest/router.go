package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/auth"
	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/internal/metrics"
	"github.com/bodega-ag/inventory-gateway/internal/movement"
	"github.com/bodega-ag/inventory-gateway/internal/product"
	"github.com/bodega-ag/inventory-gateway/internal/transport/middleware"
	"github.com/bodega-ag/inventory-gateway/internal/transport/swagger"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

type Handlers struct {
	Auth     *auth.Handler
	Catalog  *catalog.Handler
	Product  *product.Handler
	Movement *movement.Handler
	User     *user.Handler
}

type Options struct {
	UpstreamURL    string
	AllowedOrigins string
	// Metrics is nil when metrics are disabled.
	Metrics     *metrics.Registry
	MetricsPath string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(opts.UpstreamURL)

	var rejections middleware.RejectionCounter
	if opts.Metrics != nil {
		rejections = opts.Metrics
	}

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, string(internal.ErrCodeNotFound), "Recurso no encontrado")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, string(internal.ErrCodeMethodNotAllowed), "Método no permitido")
	})

	router.Get("/openapi.yml", swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())
	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)
	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, opts.Metrics.Handler())
	}

	if h.Auth != nil {
		router.Post("/login", h.Auth.Login)
	}

	// Everything else needs a bearer credential
	router.Group(func(pr chi.Router) {
		pr.Use(middleware.TokenGate(rejections))

		if h.Auth != nil {
			pr.Get("/verify-level", h.Auth.VerifyLevel)
		}

		if h.Catalog != nil {
			pr.Route("/catalogues/{kind}", func(cr chi.Router) {
				cr.Get("/", h.Catalog.ListActive)
				cr.Post("/create", h.Catalog.Create)
				cr.Put("/{id}", h.Catalog.Update)
				cr.Patch("/{id}/activate", h.Catalog.Activate)
				cr.Patch("/{id}/deactivate", h.Catalog.Deactivate)
			})
		}

		if h.Product != nil {
			pr.Route("/productos", func(er chi.Router) {
				er.Get("/", h.Product.List)
				er.Post("/create", h.Product.Create)
				er.Get("/{id}", h.Product.Get)
				er.Put("/{id}", h.Product.Update)
				er.Patch("/{id}/baja", h.Product.Retire)
			})
		}

		if h.Movement != nil {
			pr.Get("/movimientos", h.Movement.List)
			pr.Get("/movimientos/{id}", h.Movement.Get)
		}

		if h.User != nil {
			pr.Get("/usuarios", h.User.List)
			pr.Post("/registro", h.User.Register)
			pr.Put("/usuarios/{id}", h.User.Update)
			pr.Patch("/usuarios/{id}/activate", h.User.Activate)
			pr.Patch("/usuarios/{id}/deactivate", h.User.Deactivate)
		}
	})
}

func writeFailure(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope.Fail[json.RawMessage](status, code, message))
}
