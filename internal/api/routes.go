package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahelwatch/sentinel-engine/internal/db"
	"github.com/sahelwatch/sentinel-engine/internal/ingest"
	"github.com/sahelwatch/sentinel-engine/internal/risk"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

type APIHandler struct {
	store      *db.PostgresStore
	hub        *Hub
	ingestor   *ingest.Ingestor
	audit      *ingest.AuditLog
	highRisk   *ingest.HighRiskLog
	alerts     *risk.AlertManager
	brokerUp   func() bool
	llmEnabled bool
}

// RouterConfig carries everything the HTTP surface depends on. Optional
// pieces may be nil; the affected endpoints degrade instead of panicking.
type RouterConfig struct {
	Store      *db.PostgresStore
	Hub        *Hub
	Ingestor   *ingest.Ingestor
	Audit      *ingest.AuditLog
	HighRisk   *ingest.HighRiskLog
	Alerts     *risk.AlertManager
	BrokerUp   func() bool
	LLMEnabled bool
	RatePerMin int
}

func SetupRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var
	// Production: ALLOWED_ORIGINS=https://dashboard.sahelwatch.org
	// Development: ALLOWED_ORIGINS=http://localhost:3000 (or leave empty for *)
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			// Check if the request origin is in the allowed list
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		store:      cfg.Store,
		hub:        cfg.Hub,
		ingestor:   cfg.Ingestor,
		audit:      cfg.Audit,
		highRisk:   cfg.HighRisk,
		alerts:     cfg.Alerts,
		brokerUp:   cfg.BrokerUp,
		llmEnabled: cfg.LLMEnabled,
	}

	ratePerMin := cfg.RatePerMin
	if ratePerMin <= 0 {
		ratePerMin = 60
	}
	limiter := NewRateLimiter(ratePerMin, ratePerMin)

	api := r.Group("/api/v1")
	api.Use(limiter.Middleware())
	{
		// Public endpoints
		api.GET("/health", handler.handleHealth)
		if cfg.Hub != nil {
			api.GET("/stream", cfg.Hub.Subscribe)
		}

		protected := api.Group("")
		protected.Use(AuthMiddleware())
		{
			protected.GET("/signals", handler.handleGetSignals)
			protected.POST("/simulate", handler.handleSimulate)

			protected.GET("/stats/ingestion-volume", handler.handleIngestionVolume)
			protected.GET("/stats/intelligence-depth", handler.handleIntelligenceDepth)
			protected.GET("/stats/categorization-audit", handler.handleCategorizationAudit)

			protected.GET("/automation/logs", handler.handleAutomationLogs)
			protected.GET("/alerts/high-risk", handler.handleHighRiskAlerts)
			protected.GET("/alerts/recent", handler.handleRecentAlerts)

			protected.POST("/ingest/run", handler.handleRunIngestion)
		}
	}

	return r
}

// handleHealth reports component capabilities. The service stays up in
// degraded mode when optional infrastructure is missing.
func (h *APIHandler) handleHealth(c *gin.Context) {
	dbUp := false
	if h.store != nil {
		dbUp = h.store.Ping(c.Request.Context()) == nil
	}
	brokerUp := h.brokerUp != nil && h.brokerUp()

	status := "healthy"
	if !dbUp {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"capabilities": gin.H{
			"database":       dbUp,
			"message_broker": brokerUp,
			"llm_extraction": h.llmEnabled,
			"scraper":        h.ingestor != nil,
		},
	})
}

// handleGetSignals returns the most recent risk signals, newest first.
func (h *APIHandler) handleGetSignals(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	signals, err := h.store.GetRecentSignals(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load risk signals: " + err.Error(),
		})
		return
	}
	if signals == nil {
		signals = []models.RiskSignal{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Risk signals retrieved",
		"count":   len(signals),
		"signals": signals,
	})
}

// handleSimulate re-scores the live event set under the posted slider
// values and returns the GeoJSON risk surface.
func (h *APIHandler) handleSimulate(c *gin.Context) {
	var params models.SimulationParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid simulation parameters: " + err.Error(),
		})
		return
	}

	events, err := h.store.GetAllEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load events: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, risk.Simulate(events, params))
}

func (h *APIHandler) handleIngestionVolume(c *gin.Context) {
	count, err := h.store.CountArticles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to count articles: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"message":        "Ingestion volume retrieved",
		"total_articles": count,
	})
}

func (h *APIHandler) handleIntelligenceDepth(c *gin.Context) {
	ctx := c.Request.Context()
	events, err := h.store.CountParsedEvents(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to count events: " + err.Error(),
		})
		return
	}
	signals, err := h.store.CountRiskSignals(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to count signals: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"message":       "Intelligence depth retrieved",
		"total_events":  events,
		"total_signals": signals,
	})
}

func (h *APIHandler) handleCategorizationAudit(c *gin.Context) {
	audit, err := h.store.GetCategorizationAudit(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to build categorization audit: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Categorization audit retrieved",
		"audit":   audit,
	})
}

// handleAutomationLogs exposes the bounded in-memory scrape cycle log.
func (h *APIHandler) handleAutomationLogs(c *gin.Context) {
	entries := []ingest.AuditEntry{}
	if h.audit != nil {
		entries = h.audit.Entries()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Automation logs retrieved",
		"count":   len(entries),
		"logs":    entries,
	})
}

// handleHighRiskAlerts exposes the bounded in-memory high-risk signal log.
func (h *APIHandler) handleHighRiskAlerts(c *gin.Context) {
	signals := []models.RiskSignal{}
	if h.highRisk != nil {
		signals = h.highRisk.Signals()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "High-risk signals retrieved",
		"count":     len(signals),
		"threshold": ingest.HighRiskThreshold,
		"signals":   signals,
	})
}

func (h *APIHandler) handleRecentAlerts(c *gin.Context) {
	alerts := []risk.Alert{}
	if h.alerts != nil {
		alerts = h.alerts.GetRecentAlerts(50)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Recent alerts retrieved",
		"count":   len(alerts),
		"alerts":  alerts,
	})
}

// handleRunIngestion triggers one scrape cycle synchronously and returns
// its outcome. Overlapping triggers are rejected by the cycle guard.
func (h *APIHandler) handleRunIngestion(c *gin.Context) {
	if h.ingestor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Ingestion is not configured",
		})
		return
	}

	result := h.ingestor.RunCycle(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":             result.Status,
		"message":            result.Message,
		"total_scraped":      result.TotalScraped,
		"new_articles":       result.NewArticles,
		"duplicates":         result.Duplicates,
		"successful_sources": result.SuccessfulSources,
		"failed_sources":     result.FailedSources,
	})
}
