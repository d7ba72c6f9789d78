package main

import (
	"context"
	"database/sql"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "bistro-backend/analytics-svc/internal/api/http"
	"bistro-backend/analytics-svc/internal/service"
	"bistro-backend/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// listenAddr serves on the port the gateway is configured to reach, unless
// HTTP_ADDR is set explicitly.
func listenAddr(cfg config.Settings) string {
	if os.Getenv("HTTP_ADDR") != "" {
		return cfg.HTTPAddr
	}
	u, err := url.Parse(cfg.AnalyticsSvcURL)
	if err != nil || u.Port() == "" {
		return ":8083"
	}
	return ":" + u.Port()
}

func buildRouter(db *sql.DB, rdb *redis.Client) http.Handler {
	svc := service.NewAnalyticsService(db, rdb)
	return httpapi.NewRouter(httpapi.NewHandler(svc))
}

func main() {
	cfg := config.Load()
	logger := config.MustInitLogger(cfg, "analytics-svc")
	defer logger.Sync()

	db := config.MustInitPostgres(cfg)
	defer db.Close()
	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	srv := httpapi.NewServer(listenAddr(cfg), buildRouter(db, rdb))
	go httpapi.StartServer(srv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
	zap.L().Info("analytics service stopped")
}
