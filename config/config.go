package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Settings is shared by every service binary; each one reads only the
// fields it needs.
type Settings struct {
	HTTPAddr string

	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	DBMaxOpenConns int

	RedisHost string
	RedisPort string

	KafkaBroker  string
	EventsTopic  string
	ConsumerName string

	StorageDriver   string
	CatalogCacheTTL time.Duration
	UploadDir       string
	PublicBaseURL   string

	JWTSecret       string
	AdminEmail      string
	AdminPassword   string
	TokenTTL        time.Duration
	OrderSvcURL     string
	AnalyticsSvcURL string
	UpstreamTimeout time.Duration

	LogMode string
	LogFile string
}

func Load() Settings {
	return Settings{
		HTTPAddr: getEnv("HTTP_ADDR", ":8081"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "bistro"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBMaxOpenConns: cast.ToInt(getEnv("DB_MAX_OPEN_CONNS", "25")),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		KafkaBroker:  getEnv("KAFKA_BROKER", "localhost:9092"),
		EventsTopic:  getEnv("EVENTS_TOPIC", "restaurant-events"),
		ConsumerName: getEnv("KAFKA_GROUP_ID", "agg-svc"),

		StorageDriver:   getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		CatalogCacheTTL: cast.ToDuration(getEnv("CATALOG_CACHE_TTL", "30s")),
		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		TokenTTL:        cast.ToDuration(getEnv("TOKEN_TTL", "24h")),
		OrderSvcURL:     getEnv("ORDER_SVC_URL", "http://localhost:8081"),
		AnalyticsSvcURL: getEnv("ANALYTICS_SVC_URL", "http://localhost:8083"),
		UpstreamTimeout: cast.ToDuration(getEnv("UPSTREAM_TIMEOUT", "10s")),

		LogMode: getEnv("LOG_MODE", "development"),
		LogFile: os.Getenv("LOG_FILE"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (s Settings) PostgresDSN() string {
	return "host=" + s.DBHost + " port=" + s.DBPort + " user=" + s.DBUser +
		" password=" + s.DBPassword + " dbname=" + s.DBName + " sslmode=disable"
}

func (s Settings) RedisAddr() string {
	return s.RedisHost + ":" + s.RedisPort
}

// MustInitLogger builds the process logger, installs it as the zap global and
// tees into a rotated file when LOG_FILE is set.
func MustInitLogger(s Settings, service string) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	if s.LogMode == "production" {
		encCfg = zap.NewProductionEncoderConfig()
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	stdout := zapcore.NewConsoleEncoder(encCfg)
	if s.LogMode == "production" {
		stdout = zapcore.NewJSONEncoder(encCfg)
	}
	cores := []zapcore.Core{
		zapcore.NewCore(stdout, zapcore.Lock(os.Stdout), level),
	}
	if s.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   s.LogFile,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).With(zap.String("service", service))
	zap.ReplaceGlobals(logger)
	return logger
}

func MustInitPostgres(s Settings) *sql.DB {
	db, err := sql.Open("postgres", s.PostgresDSN())
	if err != nil {
		zap.S().Fatalw("failed to connect to database", "error", err)
	}

	if err = db.Ping(); err != nil {
		zap.S().Fatalw("failed to ping database", "error", err)
	}

	db.SetMaxOpenConns(s.DBMaxOpenConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(s Settings) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: s.RedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		zap.S().Fatalw("failed to connect to redis", "addr", s.RedisAddr(), "error", err)
	}

	return client
}

func NewKafkaReader(s Settings) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{s.KafkaBroker},
		Topic:   s.EventsTopic,
		GroupID: s.ConsumerName,
	})
}

func NewKafkaWriter(s Settings) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(s.KafkaBroker),
		Topic:        s.EventsTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
}

func (s Settings) String() string {
	return fmt.Sprintf("addr=%s driver=%s db=%s@%s:%s/%s redis=%s kafka=%s topic=%s",
		s.HTTPAddr, s.StorageDriver, s.DBUser, s.DBHost, s.DBPort, s.DBName, s.RedisAddr(), s.KafkaBroker, s.EventsTopic)
}
