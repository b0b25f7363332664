// Package app contains the application setup for the cart service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopfront/cart_service/internal/config"
	"github.com/shopfront/cart_service/internal/service"
	"github.com/shopfront/cart_service/internal/store"
	"github.com/shopfront/cart_service/internal/transport/rest"
	"github.com/shopfront/cart_service/pkg/messaging"
	"github.com/shopfront/cart_service/pkg/server"
)

type Dependencies struct {
	CartService service.CartService
	Registry    *prometheus.Registry
	Logger      *slog.Logger
}

func SetupDependencies(cartStore store.CartStore, productStore store.ProductStore, publisher messaging.Publisher, registry *prometheus.Registry, logger *slog.Logger) *Dependencies {
	cService := service.NewService(cartStore, productStore, publisher)

	return &Dependencies{
		CartService: cService,
		Registry:    registry,
		Logger:      logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the cart service.
// Used by E2E tests to compose the handler without a listening server.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the cart service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	cartHandler := rest.NewHandler(deps.CartService, deps.Logger)
	cartHandler.RegisterRoutes(mux)
	if deps.Registry != nil {
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
}

// SetupHttpServer creates and configures an HTTP server for the cart service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)
	return server.NewHTTPServer(server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}, mux)
}
