package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"bistro-backend/analytics-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	headerUserID    = "X-User-ID"
	headerUserAdmin = "X-User-Admin"
)

type Handler struct {
	Analytics service.AnalyticsInterface
}

func NewHandler(svc service.AnalyticsInterface) *Handler {
	return &Handler{Analytics: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api/analytics").Subrouter()
	api.Use(requireAdmin)
	api.HandleFunc("/top-today", h.getTopToday).Methods("GET")
	api.HandleFunc("/top-alltime", h.getTopAllTime).Methods("GET")
	api.HandleFunc("/order-status", h.getOrderStatus).Methods("GET")
	api.HandleFunc("/bookings", h.getBookings).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "analytics-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// requireAdmin trusts the identity headers the gateway sets.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(headerUserID) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "not authorized, please log in"})
			return
		}
		if r.Header.Get(headerUserAdmin) != "true" {
			writeJSON(w, http.StatusForbidden, map[string]interface{}{"success": false, "message": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, r *http.Request, key string, data interface{}, err error) {
	if err != nil {
		zap.L().Error("analytics query failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Analytics fetched", key: data})
}

func (h *Handler) getTopToday(w http.ResponseWriter, r *http.Request) {
	data, err := h.Analytics.TopToday(r.Context())
	respond(w, r, "items", data, err)
}

func (h *Handler) getTopAllTime(w http.ResponseWriter, r *http.Request) {
	data, err := h.Analytics.TopAllTime(r.Context())
	respond(w, r, "items", data, err)
}

func (h *Handler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	data, err := h.Analytics.OrderStatusCounts(r.Context())
	respond(w, r, "counts", data, err)
}

func (h *Handler) getBookings(w http.ResponseWriter, r *http.Request) {
	data, err := h.Analytics.BookingsPerDate(r.Context())
	respond(w, r, "counts", data, err)
}
