package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nptc-feedback/backend/internal/auth"
	"github.com/nptc-feedback/backend/internal/feedback"
	"github.com/nptc-feedback/backend/internal/server"
	"github.com/nptc-feedback/backend/internal/shared"
	"github.com/nptc-feedback/backend/internal/store"
)

func main() {
	log.Println("INFO: Starting Feedback API...")

	// 1. Configuration
	shared.LoadEnv("")
	cfg, err := shared.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	shared.PrintConfig(cfg)

	// 2. Aggregate Store
	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	st := store.NewMongoStore(db)
	departments := shared.NewDepartmentRegistry()

	// 3. Services and Routes
	authSvc := auth.NewService(st, cfg.Admin, cfg.Security, cfg.LoginRetry)
	feedbackSvc := feedback.NewService(st, departments, cfg.QueryRetry)
	router := server.NewRouter(authSvc, feedbackSvc, cfg.CORS)

	// 4. Configure Server
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Feedback API listening on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down Feedback API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server shutdown error: %v", err)
	}

	log.Println("INFO: Feedback API stopped.")
}
