package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "bistro-backend/analytics-svc/internal/api/http"
	"bistro-backend/analytics-svc/internal/domain"
	"bistro-backend/analytics-svc/internal/mocks"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*mux.Router, *mocks.AnalyticsInterface) {
	mockAnalytics := mocks.NewAnalyticsInterface(t)
	r := mux.NewRouter()
	httpapi.NewHandler(mockAnalytics).RegisterRoutes(r)
	return r, mockAnalytics
}

func adminRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("X-User-Admin", "true")
	return req
}

func TestHealthHandler(t *testing.T) {
	r, _ := setupTestRouter(t)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "analytics-svc")
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		admin    string
		wantCode int
	}{
		{name: "anonymous", wantCode: http.StatusUnauthorized},
		{name: "customer", userID: "7", admin: "false", wantCode: http.StatusForbidden},
		{name: "header_not_true", userID: "7", admin: "1", wantCode: http.StatusForbidden},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			r, _ := setupTestRouter(t)
			req := httptest.NewRequest(http.MethodGet, "/api/analytics/top-today", nil)
			if testCase.userID != "" {
				req.Header.Set("X-User-ID", testCase.userID)
			}
			if testCase.admin != "" {
				req.Header.Set("X-User-Admin", testCase.admin)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestTopItemsHandlers(t *testing.T) {
	items := []domain.ItemAnalytics{{MenuItemID: 3, Name: "Soup", Score: 12}}

	tests := []struct {
		name      string
		path      string
		method    string
		mockItems []domain.ItemAnalytics
		mockError error
		wantCode  int
	}{
		{name: "today", path: "/api/analytics/top-today", method: "TopToday", mockItems: items, wantCode: http.StatusOK},
		{name: "alltime", path: "/api/analytics/top-alltime", method: "TopAllTime", mockItems: items, wantCode: http.StatusOK},
		{name: "today_error", path: "/api/analytics/top-today", method: "TopToday", mockError: errors.New("pq: connection refused"), wantCode: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			r, mockAnalytics := setupTestRouter(t)
			mockAnalytics.On(testCase.method, mock.Anything).Return(testCase.mockItems, testCase.mockError).Once()
			w := httptest.NewRecorder()

			r.ServeHTTP(w, adminRequest(testCase.path))

			assert.Equal(t, testCase.wantCode, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			if testCase.mockError != nil {
				assert.Equal(t, false, body["success"])
				assert.NotContains(t, body["message"], "pq:")
				return
			}
			got := body["items"].([]interface{})
			require.Len(t, got, 1)
			assert.Equal(t, "Soup", got[0].(map[string]interface{})["name"])
		})
	}
}

func TestCountHandlers(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		method     string
		mockCounts map[string]int64
		mockError  error
		wantCode   int
	}{
		{name: "order_status", path: "/api/analytics/order-status", method: "OrderStatusCounts", mockCounts: map[string]int64{"Pending": 2, "Preparing": 0, "Delivered": 5}, wantCode: http.StatusOK},
		{name: "bookings", path: "/api/analytics/bookings", method: "BookingsPerDate", mockCounts: map[string]int64{"2024-06-01": 3}, wantCode: http.StatusOK},
		{name: "bookings_error", path: "/api/analytics/bookings", method: "BookingsPerDate", mockError: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			r, mockAnalytics := setupTestRouter(t)
			mockAnalytics.On(testCase.method, mock.Anything).Return(testCase.mockCounts, testCase.mockError).Once()
			w := httptest.NewRecorder()

			r.ServeHTTP(w, adminRequest(testCase.path))

			assert.Equal(t, testCase.wantCode, w.Code)
			if testCase.mockError != nil {
				return
			}
			var body struct {
				Success bool             `json:"success"`
				Counts  map[string]int64 `json:"counts"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.True(t, body.Success)
			assert.Equal(t, testCase.mockCounts, body.Counts)
		})
	}
}
