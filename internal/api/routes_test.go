package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthDegradedWithoutDatabase(t *testing.T) {
	router := SetupRouter(RouterConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Status       string          `json:"status"`
		Capabilities map[string]bool `json:"capabilities"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Status != "degraded" {
		t.Errorf("status = %q, want degraded", body.Status)
	}
	if body.Capabilities["database"] {
		t.Error("database capability should be false without a store")
	}
}

func TestAuthMiddlewareRejectsWithoutToken(t *testing.T) {
	t.Setenv("API_AUTH_TOKEN", "secret-token")
	router := SetupRouter(RouterConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/signals", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without Authorization header", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/signals", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 with a bad token", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := SetupRouter(RouterConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}

func TestRateLimiterBurstAndRefill(t *testing.T) {
	rl := NewRateLimiter(60, 2)

	if ok, _ := rl.allow("10.0.0.1"); !ok {
		t.Error("first request should pass")
	}
	if ok, _ := rl.allow("10.0.0.1"); !ok {
		t.Error("second request should pass (burst of 2)")
	}
	ok, retryAfter := rl.allow("10.0.0.1")
	if ok {
		t.Error("third immediate request should be limited")
	}
	if retryAfter <= 0 {
		t.Errorf("retryAfter = %v, want > 0", retryAfter)
	}

	// A different IP has its own bucket.
	if ok, _ := rl.allow("10.0.0.2"); !ok {
		t.Error("separate IPs should not share buckets")
	}

	// Tokens refill over time: at 60/min one token takes a second.
	time.Sleep(1100 * time.Millisecond)
	if ok, _ := rl.allow("10.0.0.1"); !ok {
		t.Error("request after refill window should pass")
	}
}
