package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lendstack/backoffice/internal/apply"
	"github.com/lendstack/backoffice/internal/audit"
	"github.com/lendstack/backoffice/internal/config"
	"github.com/lendstack/backoffice/internal/db"
	"github.com/lendstack/backoffice/internal/httpapi"
	"github.com/lendstack/backoffice/internal/middleware"
	"github.com/lendstack/backoffice/internal/repository"
	"github.com/lendstack/backoffice/internal/review"
	"github.com/lendstack/backoffice/migrations"

	"github.com/rs/cors"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	dbConfig, err := config.LoadDBConfig(".")
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}
	serverConfig, err := config.LoadServerConfig(".")
	if err != nil {
		log.Fatalf("Failed to load server config: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(dbConfig, migrations.FS); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories and the transaction manager
	repos := repository.New(conn.Pool)
	txManager := repository.NewManager(conn)

	// Build the apply registry; a missing applier is a boot failure
	registry := apply.NewRegistry(nil).MustValidate()

	// Wire the review workflow
	auditor := audit.NewPgRecorder(conn.Pool)
	controller := review.NewController(repos.PendingChanges, txManager, registry, auditor)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   serverConfig.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	apiHandler := middleware.LoggingMiddleware(
		middleware.ActorMiddleware(httpapi.NewHandler(controller)),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         serverConfig.Addr,
		Handler:      corsHandler.Handler(apiHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting review API server on %s", serverConfig.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
