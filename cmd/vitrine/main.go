package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bazarlivre/vitrine/internal/handlers"
	"github.com/bazarlivre/vitrine/internal/platform/config"
	"github.com/bazarlivre/vitrine/internal/platform/idempotency"
	"github.com/bazarlivre/vitrine/internal/platform/observability"
	"github.com/bazarlivre/vitrine/internal/repositories"
	"github.com/bazarlivre/vitrine/internal/services"
	"github.com/bazarlivre/vitrine/internal/view"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("vitrine")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	provider, err := newCatalogProvider(cfg.Catalog)
	if err != nil {
		logger.Fatal("failed to initialise catalog provider", zap.Error(err))
	}

	store, err := services.NewCatalogStore(services.CatalogStoreDeps{
		Provider: provider,
		Logger:   logger.Named("catalog"),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog store", zap.Error(err))
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.Catalog.FetchTimeout)
	if err := store.Load(loadCtx); err != nil {
		// The load is terminal: requests are answered with the unavailable
		// notice for the lifetime of the process.
		logger.Error("catalog load failed", zap.Error(err))
	}
	cancelLoad()

	metrics := observability.NewMetrics(nil, logger.Named("metrics"))

	var interactionLog services.InteractionLog
	if cfg.Features.EnableInteractionLog {
		interactionLog = services.NewInteractionLog(services.InteractionLogDeps{
			Capacity: cfg.Interactions.LogCapacity,
		})
	}

	dispatcher, err := services.NewDispatcher(services.DispatcherDeps{
		Store:           store,
		Clipboard:       services.NewNoopClipboard(),
		Log:             interactionLog,
		Logger:          logger.Named("dispatcher"),
		ConfirmationTTL: cfg.Interactions.CopyConfirmationTTL,
	})
	if err != nil {
		logger.Fatal("failed to initialise dispatcher", zap.Error(err))
	}

	renderer := view.NewRenderer(view.WithPlaceholderRef(cfg.Catalog.PlaceholderRef))

	catalogHandlers := handlers.NewCatalogHandlers(
		handlers.WithCatalogStore(store),
		handlers.WithCatalogFilterEngine(services.NewFilterEngine()),
		handlers.WithCatalogRenderer(renderer),
		handlers.WithCatalogDispatcher(dispatcher),
		handlers.WithCatalogMetrics(metrics),
	)

	interactionHandlers := handlers.NewInteractionHandlers(
		handlers.WithInteractionDispatcher(dispatcher),
		handlers.WithInteractionLog(interactionLog),
		handlers.WithInteractionMetrics(metrics),
		handlers.WithInteractionRateLimit(120, time.Minute),
	)

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithReadinessCheck("catalog", func(context.Context) error {
			_, err := store.Snapshot()
			return err
		}),
	)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	idempotencyStore := idempotency.NewMemoryStore()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for now := range ticker.C {
			if removed, err := idempotencyStore.CleanupExpired(ctx, now, 0); err == nil && removed > 0 {
				logger.Debug("expired idempotency records removed", zap.Int("count", removed))
			}
		}
	}()

	idempotencyMiddleware := idempotency.Middleware(
		idempotencyStore,
		idempotency.WithLogger(observability.NewPrintfAdapter(logger.Named("idempotency"))),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithCatalogRoutes(catalogHandlers.Routes),
		handlers.WithInteractionRoutes(func(r chi.Router) {
			r.Use(idempotencyMiddleware)
			interactionHandlers.Routes(r)
		}),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("vitrine listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newCatalogProvider(cfg config.CatalogConfig) (repositories.CatalogProvider, error) {
	if cfg.FeedURL != "" {
		return repositories.NewHTTPCatalogProvider(cfg.FeedURL, &http.Client{Timeout: cfg.FetchTimeout})
	}
	return repositories.NewFileCatalogProvider(cfg.FeedPath)
}
