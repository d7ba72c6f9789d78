package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro-backend/api-gateway/internal/gateway"
	"bistro-backend/config"

	"github.com/rs/cors"
	"go.uber.org/zap"
)

func listenAddr() string {
	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func buildHandler(cfg config.Settings, client gateway.HTTPClient) http.Handler {
	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL:     cfg.OrderSvcURL,
		AnalyticsSvcURL: cfg.AnalyticsSvcURL,
		JWTSecret:       cfg.JWTSecret,
		AdminEmail:      cfg.AdminEmail,
	}, client)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080", "http://127.0.0.1:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(gw.SetupRoutes())
}

func main() {
	cfg := config.Load()
	logger := config.MustInitLogger(cfg, "api-gateway")
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		zap.S().Fatal("JWT_SECRET must be set")
	}

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: buildHandler(cfg, &http.Client{Timeout: cfg.UpstreamTimeout}),
	}
	go func() {
		zap.S().Infof("API Gateway starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.S().Fatalw("api gateway stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
	zap.L().Info("api gateway stopped")
}
