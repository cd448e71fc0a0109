// Command scanner runs the arbitrage scanner headlessly, printing each
// cycle's results to stdout instead of serving them over HTTP. Grounded
// on the distilled source's headless_main.py fixed-count smoke-test loop.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bimakw/arbiscan/internal/app"
	"github.com/bimakw/arbiscan/internal/config"
	"github.com/bimakw/arbiscan/internal/presentation/cli"
	"github.com/bimakw/arbiscan/internal/presentation/csvlog"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	maxScans := 0 // 0 means run until interrupted
	if v := os.Getenv("SCAN_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxScans = n
		}
	}
	csvPath := getEnv("CSV_LOG_PATH", "opportunities.csv")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("starting headless arbitrage scanner")
	a := app.Bootstrap(ctx)

	csvWriter, err := csvlog.NewWriter(csvPath)
	if err != nil {
		log.Fatalf("csv log: %v", err)
	}

	scanNum := 0
	for {
		select {
		case <-ctx.Done():
			log.Println("stopped")
			return
		default:
		}

		scanNum++
		log.Printf("--- SCAN %d ---", scanNum)
		start := time.Now()

		opportunities, err := a.ScanEngine.Scan(ctx)
		if err != nil {
			log.Printf("scan %d failed: %v", scanNum, err)
		} else {
			log.Printf("scan %d complete in %s, found %d opportunities", scanNum, time.Since(start).Round(time.Millisecond), len(opportunities))
			cli.PrintOpportunities(os.Stdout, opportunities)

			triangular := a.Triangular.Scan(a.ScanEngine.LastQuotes(), config.DefaultTradeSizeUSD, time.Now())
			cli.PrintTriangular(os.Stdout, triangular)

			if err := csvWriter.Log(opportunities); err != nil {
				log.Printf("csv log: %v", err)
			}
		}

		if maxScans > 0 && scanNum >= maxScans {
			log.Printf("reached SCAN_COUNT=%d, exiting", maxScans)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(config.ScanIntervalSeconds * float64(time.Second))):
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
