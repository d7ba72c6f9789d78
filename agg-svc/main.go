package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"bistro-backend/agg-svc/internal/service"
	"bistro-backend/agg-svc/internal/storage"
	"bistro-backend/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func buildConsumer(reader service.MessageReader, rdb *redis.Client) *service.Consumer {
	return service.NewConsumer(reader, storage.NewStore(rdb))
}

func main() {
	cfg := config.Load()
	logger := config.MustInitLogger(cfg, "agg-svc")
	defer logger.Sync()
	zap.S().Infof("configuration: %s", cfg)

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg)
	defer func() {
		if err := reader.Close(); err != nil {
			zap.L().Warn("close kafka reader", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	buildConsumer(reader, rdb).Start(ctx)
}
