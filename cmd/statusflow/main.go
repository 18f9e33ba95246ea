package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/retailops/statusflow/internal/adapter/fsm"
	"github.com/retailops/statusflow/internal/adapter/otel"
	"github.com/retailops/statusflow/internal/adapter/river"
	"github.com/retailops/statusflow/internal/adapter/sqlite"
	"github.com/retailops/statusflow/internal/app"

	handler "github.com/retailops/statusflow/internal/adapter/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("statusflow: %v", err)
	}
}

func run() error {
	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "statusflow.db")

	ctx := context.Background()

	// --- Telemetry ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := sqlite.Migrate(db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	client, err := river.Setup(ctx, db, &river.LogSender{}, river.NewActionRegistry())
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("river start: %w", err)
	}

	stores := sqlite.NewStoreRepository(db)
	catalog := sqlite.NewCatalogRepository(db)
	entities := otel.NewTracingEntityRepository(
		sqlite.NewEntityRepository(db, river.NewEnqueuer(client)))
	migration := otel.NewTracingMigrationRepository(
		sqlite.NewMigrationRepository(db))

	// --- Application ---
	catalogSvc := app.NewCatalogService(stores, catalog)
	svc := handler.Services{
		Stores:     stores,
		Entities:   entities,
		Catalog:    catalogSvc,
		Transition: app.NewTransitionService(stores, catalog, entities, fsm.New(), app.NewAutomationExecutor()),
		Migration:  app.NewMigrationService(stores, catalog, catalogSvc, migration),
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware("statusflow", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("statusflow", "0.1.0"))
	handler.Register(api, svc)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("statusflow listening on :%s", port)
		log.Printf("API docs: http://localhost:%s/docs", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-done:
	}
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := client.Stop(shutdownCtx); err != nil {
		log.Printf("river stop error: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("otel shutdown error: %v", err)
	}

	log.Println("stopped")
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
