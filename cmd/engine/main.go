package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sahelwatch/sentinel-engine/internal/api"
	"github.com/sahelwatch/sentinel-engine/internal/bus"
	"github.com/sahelwatch/sentinel-engine/internal/classify"
	"github.com/sahelwatch/sentinel-engine/internal/db"
	"github.com/sahelwatch/sentinel-engine/internal/ingest"
	"github.com/sahelwatch/sentinel-engine/internal/refdata"
	"github.com/sahelwatch/sentinel-engine/internal/risk"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func main() {
	log.Println("Starting SahelWatch Sentinel Engine (Microservice: ng-conflict-early-warning)...")

	// ─── Required Environment Variables ─────────────────────────────────
	// All credentials MUST come from environment variables. No fallback
	// defaults for security-sensitive values. Use a .env file for local
	// development: cp .env.example .env && edit .env
	// ────────────────────────────────────────────────────────────────────

	dbURL := requireEnv("DATABASE_URL")

	store, err := db.Connect(dbURL)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to PostgreSQL: %v", err)
	}
	defer store.Close()
	if err := store.InitSchema(); err != nil {
		log.Fatalf("FATAL: DB schema init failed: %v", err)
	}

	// Message broker is optional: without it the pipeline still works
	// through the store-backed pollers (demo mode).
	natsURL := getEnvOrDefault("NATS_URL", "nats://localhost:4222")
	broker, err := bus.Connect(natsURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to NATS, continuing in demo mode without streaming. Error: %v", err)
		broker = bus.Disconnected()
	} else {
		defer broker.Close()
	}

	// Reference datasets: climate, mining, border, strategic indicators.
	// Missing files degrade to empty datasets with a warning.
	refdataDir := getEnvOrDefault("REFDATA_DIR", "./data")
	snapshot := refdata.Load(refdataDir)

	econ := loadEconomicTable(refdataDir, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup WebSocket Hub
	wsHub := api.NewHub()
	go wsHub.Run()

	// Ingestion: scheduled scrape cycles over the configured news sources.
	audit := ingest.NewAuditLog()
	highRisk := ingest.NewHighRiskLog()
	fetcher := ingest.NewFetcher(10, 15*time.Second)
	ingestor := ingest.NewIngestor(ingest.DefaultSources(), fetcher, store, broker, audit)

	cronSpec := getEnvOrDefault("SCRAPE_CRON", ingest.DefaultCronSpec)
	scheduler, err := ingest.NewScheduler(ingestor, cronSpec)
	if err != nil {
		log.Fatalf("FATAL: Invalid SCRAPE_CRON spec %q: %v", cronSpec, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Classification: LLM extraction with deterministic rule fallback.
	llmBaseURL := getEnvOrDefault("LLM_BASE_URL", "http://localhost:11434/v1")
	model := classify.NewLLMService(classify.LLMConfig{
		BaseURL:       llmBaseURL,
		APIKey:        getEnvOrDefault("LLM_API_KEY", "ollama"),
		Model:         getEnvOrDefault("LLM_MODEL", "llama3.2"),
		MaxConcurrent: int64(getEnvIntOrDefault("LLM_MAX_CONCURRENT", 5)),
	})
	processor := classify.NewProcessor(store, broker, model,
		durationEnv("EXTRACTION_INTERVAL", 30*time.Second),
		durationEnv("CATEGORIZATION_INTERVAL", 300*time.Second),
		getEnvIntOrDefault("LLM_MAX_CONCURRENT", 5))
	go processor.Run(ctx)

	// Risk engine: scores the unscored backlog and the live event stream,
	// pushing scored signals to the dashboard and the alert fan-out.
	alerts := risk.NewAlertManager(func(a risk.Alert) {
		wsHub.BroadcastEvent("alert", a)
	})
	if webhookURL := os.Getenv("ALERT_WEBHOOK_URL"); webhookURL != "" {
		alerts.RegisterWebhook("ops", webhookURL,
			getEnvOrDefault("ALERT_WEBHOOK_MIN_LEVEL", models.RiskHigh), nil)
	}

	engine := risk.NewEngine(econ, snapshot)
	runner := risk.NewRunner(engine, store, broker, alerts, highRisk, func(sig models.RiskSignal) {
		wsHub.BroadcastEvent("risk_signal", sig)
	})
	go runner.Run(ctx)
	if broker.Connected() {
		if err := runner.ConsumeEvents(ctx, broker); err != nil {
			log.Printf("Warning: Failed to attach risk engine to event stream: %v", err)
		}
	}

	// Setup the Gin Router
	r := api.SetupRouter(api.RouterConfig{
		Store:      store,
		Hub:        wsHub,
		Ingestor:   ingestor,
		Audit:      audit,
		HighRisk:   highRisk,
		Alerts:     alerts,
		BrokerUp:   broker.Connected,
		LLMEnabled: true,
		RatePerMin: getEnvIntOrDefault("RATE_LIMIT_PER_MIN", 60),
	})

	port := getEnvOrDefault("PORT", "8080")

	// Shut the pipeline down cleanly on SIGINT/SIGTERM.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Println("Shutdown signal received, stopping pipeline...")
		cancel()
	}()

	// Start the server
	log.Printf("Engine running on :%s (API Node: ng-conflict-early-warning)\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadEconomicTable prefers the database copy of the economic indicators
// and falls back to bootstrapping it from the bundled CSV on first run.
func loadEconomicTable(refdataDir string, store *db.PostgresStore) *refdata.EconomicTable {
	ctx, cancelLoad := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelLoad()

	rows, err := store.GetEconomicData(ctx)
	if err == nil && len(rows) > 0 {
		log.Printf("[Bootstrap] Loaded %d economic rows from database", len(rows))
		return refdata.NewEconomicTable(rows)
	}

	csvRows, err := refdata.LoadEconomicCSV(refdataDir + "/nigeria_econ.csv")
	if err != nil {
		log.Printf("Warning: No economic indicators available, risk scoring disabled until data is loaded: %v", err)
		return refdata.NewEconomicTable(nil)
	}
	if err := store.BulkLoadEconomicData(ctx, csvRows); err != nil {
		log.Printf("Warning: Failed to persist economic indicators: %v", err)
	}
	log.Printf("[Bootstrap] Loaded %d economic rows from CSV", len(csvRows))
	return refdata.NewEconomicTable(csvRows)
}

// requireEnv reads a required environment variable and exits if it is not set.
// This prevents the binary from starting with missing critical configuration.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set. "+
			"Copy .env.example to .env and fill in your values: cp .env.example .env", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
		log.Printf("Warning: Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		log.Printf("Warning: Invalid duration for %s, using default %s", key, fallback)
	}
	return fallback
}
