package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/auth"
	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	"github.com/bodega-ag/inventory-gateway/internal/metrics"
	"github.com/bodega-ag/inventory-gateway/internal/movement"
	"github.com/bodega-ag/inventory-gateway/internal/product"
	"github.com/bodega-ag/inventory-gateway/internal/transport"
	"github.com/bodega-ag/inventory-gateway/internal/transport/rest"
	"github.com/bodega-ag/inventory-gateway/internal/transport/swagger"
	"github.com/bodega-ag/inventory-gateway/internal/upstream"
	"github.com/bodega-ag/inventory-gateway/internal/user"
	"github.com/bodega-ag/inventory-gateway/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gateway HTTP server",
	Long:  `Start the authenticated gateway that relays console requests to the inventory backend`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer(mustLoadConfig())
	},
}

type Dependencies struct {
	Config   *internal.Config
	Router   *chi.Mux
	Upstream *upstream.Client
	Metrics  *metrics.Registry
	Logger   *slog.Logger
}

func startHTTPServer(cfg *internal.Config) {
	deps, err := initializeDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "upstream", deps.Upstream.BaseURL())

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serve(server, deps.Logger)
}

// serve runs server until SIGINT/SIGTERM and then drains it.
func serve(server *http.Server, log *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	log.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)
	handlers := rest.Handlers{
		Auth:     auth.NewHandler(base, auth.NewService(deps.Upstream, deps.Logger)),
		Catalog:  catalog.NewHandler(base, catalog.NewService(deps.Upstream, deps.Logger)),
		Product:  product.NewHandler(base, product.NewService(deps.Upstream, deps.Logger), deps.Config.Upstream.UploadLimit()),
		Movement: movement.NewHandler(base, movement.NewService(deps.Upstream, deps.Logger)),
		User:     user.NewHandler(base, user.NewService(deps.Upstream, deps.Logger)),
	}
	rest.RegisterAllRoutes(deps.Router, handlers, rest.Options{
		UpstreamURL:    deps.Config.Upstream.BaseURL,
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		Metrics:        deps.Metrics,
		MetricsPath:    deps.Config.Observability.Metrics.Path,
	}, deps.Logger)
}

func initializeDependencies(cfg *internal.Config) (*Dependencies, error) {
	log := logger.LoggerWrapper()

	// A broken embedded API description is a build defect; refuse to start.
	if _, err := swagger.Document(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	upstreamCfg := upstream.Config{BaseURL: cfg.Upstream.BaseURL}
	var registry *metrics.Registry
	if cfg.Observability.Metrics.Enabled {
		registry = metrics.New()
		upstreamCfg.Observer = registry
	}

	return &Dependencies{
		Config:   cfg,
		Router:   chi.NewRouter(),
		Upstream: upstream.NewClient(upstreamCfg, log),
		Metrics:  registry,
		Logger:   log,
	}, nil
}
