package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/growship/backend/internal/auth"
	"github.com/growship/backend/internal/config"
	"github.com/growship/backend/internal/db"
	"github.com/growship/backend/internal/importer"
	"github.com/growship/backend/internal/middleware"
	"github.com/growship/backend/internal/orders"
	"github.com/growship/backend/internal/organizations"
	"github.com/growship/backend/internal/products"
	"github.com/growship/backend/internal/report"
	"github.com/growship/backend/internal/repository"
	"github.com/growship/backend/internal/sales"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	organizationRepo := repository.NewOrganizationRepository(conn.Pool)
	productRepo := repository.NewProductRepository(conn.Pool)
	distributorRepo := repository.NewDistributorRepository(conn.Pool)
	orderRepo := repository.NewOrderRepository(conn.Pool)
	salesRepo := repository.NewSalesRepository(conn.Pool)
	targetRepo := repository.NewTargetRepository(conn.Pool)
	importLogRepo := repository.NewImportLogRepository(conn.Pool)

	// Create services and handlers
	validator := importer.NewValidator(productRepo, distributorRepo)
	importService := importer.NewService(validator, orderRepo, productRepo, salesRepo, targetRepo, importLogRepo)
	reportStore := report.NewStore(cfg.ReportDir, cfg.ReportTTL)
	importHandler := importer.NewHTTPHandler(importService, importLogRepo, reportStore)
	reportHandler := report.NewHTTPHandler(reportStore)
	orderHandler := orders.NewHTTPHandler(orders.NewService(orderRepo, productRepo))
	organizationHandler := organizations.NewHTTPHandler(organizations.NewService(organizationRepo))
	salesHandler := sales.NewHTTPHandler(sales.NewService(salesRepo, targetRepo))
	productHandler := products.NewHTTPHandler(productRepo)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(corsHandler.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		// Tenant management sits outside the organization scope: an
		// organization has to exist before any scoped call can name it.
		api.Route("/organizations", func(o chi.Router) {
			o.Post("/", organizationHandler.Create)
			o.Get("/", organizationHandler.List)
			o.Get("/{id}", organizationHandler.Get)
			o.Patch("/{id}", organizationHandler.Update)
			o.Delete("/{id}", organizationHandler.Delete)
		})

		api.Group(func(api chi.Router) {
			api.Use(auth.RequireOrganization)

			api.Get("/import/template", importHandler.Template)
			api.Get("/import/logs", importHandler.Logs)
			api.Post("/import/{entity}", importHandler.Upload)

			api.Get("/reports/{id}", reportHandler.Download)

			api.Route("/orders", func(o chi.Router) {
				o.Post("/", orderHandler.Create)
				o.Get("/", orderHandler.List)
				o.Post("/filter", orderHandler.Filter)
				o.Get("/stats/summary", orderHandler.Stats)
				o.Get("/{id}", orderHandler.Get)
				o.Patch("/{id}", orderHandler.Update)
				o.Delete("/{id}", orderHandler.Cancel)
			})

			api.Route("/sales", func(sl chi.Router) {
				sl.Get("/", salesHandler.Records)
				sl.Get("/targets", salesHandler.Targets)
				sl.Get("/analytics/summary", salesHandler.Analytics)
			})

			api.Route("/products", func(p chi.Router) {
				p.Get("/", productHandler.List)
				p.Delete("/{id}", productHandler.Delete)
			})
		})
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s", cfg.ServerAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
