package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	breakerFailures = 5
	breakerOpenFor  = 30 * time.Second
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL     string
	AnalyticsSvcURL string
	JWTSecret       string
	AdminEmail      string
}

type Gateway struct {
	config   Config
	client   HTTPClient
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*http.Response]
}

func NewGateway(config Config, client HTTPClient) *Gateway {
	g := &Gateway{
		config:   config,
		client:   client,
		breakers: make(map[string]*gobreaker.CircuitBreaker[*http.Response]),
	}
	for name, upstream := range map[string]string{
		"order-svc":     config.OrderSvcURL,
		"analytics-svc": config.AnalyticsSvcURL,
	} {
		g.breakers[upstream] = newBreaker(name)
	}
	return g
}

func newBreaker(name string) *gobreaker.CircuitBreaker[*http.Response] {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:    name,
		Timeout: breakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			zap.L().Warn("circuit breaker state changed",
				zap.String("upstream", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

func (g *Gateway) breaker(upstream string) *gobreaker.CircuitBreaker[*http.Response] {
	g.mu.Lock()
	defer g.mu.Unlock()
	cb, ok := g.breakers[upstream]
	if !ok {
		cb = newBreaker(upstream)
		g.breakers[upstream] = cb
	}
	return cb
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "message": message})
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "api-gateway",
	})
}

// ProxyRequest forwards r to the upstream at targetURL through that
// upstream's circuit breaker.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}
	zap.L().Debug("proxy",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("upstream", targetURL),
		zap.String("request_id", r.Header.Get(HeaderRequestID)))

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		zap.L().Error("failed to create upstream request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.breaker(targetURL).Execute(func() (*http.Response, error) {
		return g.client.Do(req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		zap.L().Warn("upstream unavailable", zap.String("upstream", targetURL), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	if err != nil {
		zap.L().Error("failed to proxy", zap.String("upstream", targetURL), zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		zap.L().Warn("failed to copy response", zap.Error(err))
	}
}

func isPublic(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/uploads/") {
		return true
	}
	switch r.Method {
	case http.MethodGet:
		switch r.URL.Path {
		case "/api/menu/all", "/api/category/all":
			return true
		}
	case http.MethodPost:
		switch r.URL.Path {
		case "/api/auth/register", "/api/auth/login", "/api/auth/admin/login", "/api/auth/logout":
			return true
		}
	}
	return false
}

// RouteHandler authenticates the caller and picks the upstream. Public routes
// accept anonymous callers; analytics is admin only; everything else under
// /api needs a valid token.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	id, err := g.Authenticate(r)
	if err != nil {
		setIdentityHeaders(r.Header, nil)
		if !isPublic(r) {
			zap.L().Debug("rejecting unauthenticated request", zap.String("path", path), zap.Error(err))
			writeError(w, http.StatusUnauthorized, "not authorized, please log in")
			return
		}
	} else {
		setIdentityHeaders(r.Header, &id)
	}

	switch {
	case strings.HasPrefix(path, "/api/analytics/"):
		if !id.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		g.ProxyRequest(w, r, g.config.AnalyticsSvcURL)
	case strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, "/uploads/"):
		g.ProxyRequest(w, r, g.config.OrderSvcURL)
	default:
		writeError(w, http.StatusNotFound, "route not found")
	}
}

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
			r.Header.Set(HeaderRequestID, rid)
		}
		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID)
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
