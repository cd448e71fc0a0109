package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/bimakw/arbiscan/internal/app"
	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/domain/entities"
	"github.com/bimakw/arbiscan/internal/presentation/csvlog"
	"github.com/bimakw/arbiscan/internal/presentation/handlers"
)

const version = "0.3.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	port := getEnv("PORT", "8080")
	csvPath := getEnv("CSV_LOG_PATH", "opportunities.csv")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := app.Bootstrap(ctx)

	csvWriter, err := csvlog.NewWriter(csvPath)
	if err != nil {
		log.Fatalf("csv log: %v", err)
	}

	healthHandler := handlers.NewHealthHandler(version, a.Pool)
	opportunityHandler := handlers.NewOpportunityHandler()
	triangularHandler := handlers.NewTriangularHandler()

	go a.ScanEngine.RunContinuous(ctx,
		func() {},
		func(opportunities []entities.Opportunity) {
			opportunityHandler.Update(opportunities)
			if err := csvWriter.Log(opportunities); err != nil {
				log.Printf("csv log: %v", err)
			}
			triangularHandler.Update(a.Triangular.Scan(a.ScanEngine.LastQuotes(), config.DefaultTradeSizeUSD, time.Now()))
		},
	)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", healthHandler.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/opportunities", opportunityHandler.List)
		r.Get("/triangular", triangularHandler.List)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting arbiscan API v%s on port %s", version, port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}
	log.Println("stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
