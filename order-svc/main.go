package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro-backend/config"
	httpapi "bistro-backend/order-svc/internal/api/http"
	"bistro-backend/order-svc/internal/service"
	"bistro-backend/order-svc/internal/storage"

	"go.uber.org/zap"
)

type dependencies struct {
	catalog   service.CatalogRepository
	carts     service.CartRepository
	orders    service.OrderRepository
	bookings  service.BookingRepository
	users     service.UserRepository
	cache     service.CatalogCache
	publisher service.EventPublisher
	closers   []func() error
}

func (d dependencies) close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			zap.L().Warn("close dependency", zap.Error(err))
		}
	}
}

func mustInitDependencies(cfg config.Settings) dependencies {
	if cfg.StorageDriver == config.StorageDriverMemory {
		zap.L().Warn("using in-memory storage, data is lost on restart")
		store := storage.NewMemoryStore()
		return dependencies{catalog: store, carts: store, orders: store, bookings: store, users: store}
	}

	db := config.MustInitPostgres(cfg)
	repo := storage.NewPostgresRepository(db)
	if err := repo.RunMigrations(); err != nil {
		zap.S().Fatalw("failed to run migrations", "error", err)
	}

	rdb := config.MustInitRedis(cfg)
	publisher := storage.NewKafkaPublisher(config.NewKafkaWriter(cfg))

	return dependencies{
		catalog:   repo,
		carts:     repo,
		orders:    repo,
		bookings:  repo,
		users:     repo,
		cache:     storage.NewRedisCache(rdb, cfg.CatalogCacheTTL),
		publisher: publisher,
		closers:   []func() error{publisher.Close, rdb.Close, db.Close},
	}
}

func buildRouter(cfg config.Settings, deps dependencies) http.Handler {
	images := storage.NewLocalImageStore(cfg.UploadDir)

	menuSvc := service.NewMenuService(deps.catalog, deps.cache, images)
	categorySvc := service.NewCategoryService(deps.catalog, images)
	cartSvc := service.NewCartService(deps.carts, menuSvc)
	orderSvc := service.NewOrderService(deps.orders, deps.publisher, service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL})
	bookingSvc := service.NewBookingService(deps.bookings, deps.publisher)
	authSvc := service.NewAuthService(deps.users, service.AuthConfig{
		Secret:        cfg.JWTSecret,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		TokenTTL:      cfg.TokenTTL,
	})

	handler := httpapi.NewHandler(cartSvc, orderSvc, bookingSvc, menuSvc, categorySvc)
	handler.UploadDir = cfg.UploadDir
	handler.Auth = authSvc
	handler.SecureCookies = cfg.LogMode == "production"
	return httpapi.NewRouter(handler)
}

func main() {
	cfg := config.Load()
	logger := config.MustInitLogger(cfg, "order-svc")
	defer logger.Sync()
	zap.S().Infof("configuration: %s", cfg)
	if cfg.JWTSecret == "" {
		zap.S().Fatal("JWT_SECRET is required to issue session tokens")
	}

	deps := mustInitDependencies(cfg)
	defer deps.close()

	srv := httpapi.NewServer(cfg.HTTPAddr, buildRouter(cfg, deps))
	go httpapi.StartServer(srv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("graceful shutdown failed", zap.Error(err))
	}
	zap.L().Info("order service stopped")
}
