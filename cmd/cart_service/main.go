package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // registers pprof handlers on the default mux
	"os"
	"os/signal"
	"syscall"

	"github.com/shopfront/cart_service/internal/app"
	"github.com/shopfront/cart_service/internal/config"
	"github.com/shopfront/cart_service/internal/store"
	"github.com/shopfront/cart_service/pkg/bootstrap"
	pkgconfig "github.com/shopfront/cart_service/pkg/config"
	"github.com/shopfront/cart_service/pkg/config/configloader"
	"github.com/shopfront/cart_service/pkg/messaging"
	natsclient "github.com/shopfront/cart_service/pkg/nats"
	"github.com/shopfront/cart_service/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "cart"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, sets up the stores, and starts the HTTP and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	meterProvider, registry, err := telemetry.NewMeterProvider(serviceName)
	if err != nil {
		return fmt.Errorf("failed to create meter provider: %w", err)
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down meter provider", slog.String("error", err.Error()))
		}
	}()

	cartStore, productStore, cleanup, err := setupStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	// Wrap the catalog lookup in a circuit breaker so a failing backend
	// trips open instead of slowing down every add call.
	guardedProducts := store.NewBreakerProductStore(productStore, cfg.Breaker)

	publisher, pubCleanup, err := setupPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer pubCleanup()

	deps := app.SetupDependencies(cartStore, guardedProducts, publisher, registry, logger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupStores creates the cart and product stores for the configured backend.
func setupStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.CartStore, store.ProductStore, func(), error) {
	if cfg.Store.Backend == pkgconfig.StoreBackendPostgres {
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		return store.NewPgCartStore(dbPool), store.NewPgProductStore(dbPool), dbPool.Close, nil
	}

	products := make([]store.Product, 0, len(cfg.Catalog.Products))
	for _, p := range cfg.Catalog.Products {
		products = append(products, store.Product{
			ID:          p.ID,
			Name:        p.Name,
			InStock:     p.InStock,
			MaxQuantity: p.MaxQuantity,
		})
	}
	logger.Info("Using in-memory stores", slog.Int("catalog_size", len(products)))
	return store.NewInMemoryCartStore(), store.NewInMemoryProductStore(products...), func() {}, nil
}

// setupPublisher creates the event publisher; a no-op one when NATS is disabled.
func setupPublisher(cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.Nats.Url))
	return natsclient.NewNatsPublisher(js), nc.Close, nil
}
