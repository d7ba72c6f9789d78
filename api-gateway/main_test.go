package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bistro-backend/config"

	"github.com/golang-jwt/jwt/v4"
)

func newTestGateway(t *testing.T, orderSvc, analyticsSvc string) http.Handler {
	t.Helper()
	cfg := config.Load()
	cfg.OrderSvcURL = orderSvc
	cfg.AnalyticsSvcURL = analyticsSvc
	cfg.JWTSecret = "secret"
	cfg.AdminEmail = "owner@bistro.test"
	return buildHandler(cfg, &http.Client{Timeout: 2 * time.Second})
}

func bearer(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

// TestHealthCheck verifies the basic JSON payload and status.
func TestHealthCheck(t *testing.T) {
	h := newTestGateway(t, "http://unused", "http://unused")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "healthy" || body["service"] != "api-gateway" {
		t.Fatalf("unexpected body: %#v", body)
	}
}

// TestForwardsVerifiedIdentity checks that the upstream sees the token's
// identity rather than the client's headers.
func TestForwardsVerifiedIdentity(t *testing.T) {
	var gotUser, gotAdmin, gotPath string
	orderSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("X-User-ID")
		gotAdmin = r.Header.Get("X-User-Admin")
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer orderSvc.Close()

	h := newTestGateway(t, orderSvc.URL, "http://unused")

	req := httptest.NewRequest(http.MethodGet, "/api/cart/get", nil)
	req.Header.Set("Authorization", bearer(t, jwt.MapClaims{"id": "u7", "email": "ada@example.com"}))
	req.Header.Set("X-User-ID", "someone-else")
	req.Header.Set("X-User-Admin", "true")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotPath != "/api/cart/get" || gotUser != "u7" || gotAdmin != "false" {
		t.Fatalf("unexpected upstream view: path=%s user=%s admin=%s", gotPath, gotUser, gotAdmin)
	}
}

// TestAnalyticsAdminOnly routes admin traffic to analytics-svc.
func TestAnalyticsAdminOnly(t *testing.T) {
	hit := false
	analyticsSvc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
		w.WriteHeader(http.StatusOK)
	}))
	defer analyticsSvc.Close()

	h := newTestGateway(t, "http://unused", analyticsSvc.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/order-status", nil)
	req.Header.Set("Authorization", bearer(t, jwt.MapClaims{"id": "u7"}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden || hit {
		t.Fatalf("customer: expected 403 without upstream call, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/analytics/order-status", nil)
	req.Header.Set("Authorization", bearer(t, jwt.MapClaims{"id": "a1", "email": "owner@bistro.test"}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !hit {
		t.Fatalf("admin: expected 200 from analytics-svc, got %d", rr.Code)
	}
}

// TestUpstreamDown maps a refused connection to 502.
func TestUpstreamDown(t *testing.T) {
	h := newTestGateway(t, "http://127.0.0.1:1", "http://unused")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/menu/all", nil))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
}
