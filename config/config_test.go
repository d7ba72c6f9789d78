package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("CATALOG_CACHE_TTL", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")

	s := Load()

	assert.Equal(t, ":8081", s.HTTPAddr)
	assert.Equal(t, StorageDriverPostgres, s.StorageDriver)
	assert.Equal(t, 30*time.Second, s.CatalogCacheTTL)
	assert.Equal(t, 25, s.DBMaxOpenConns)
	assert.Equal(t, "restaurant-events", s.EventsTopic)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	s := Load()

	assert.Equal(t, ":9000", s.HTTPAddr)
	assert.Equal(t, StorageDriverMemory, s.StorageDriver)
	assert.Equal(t, 2*time.Minute, s.CatalogCacheTTL)
	assert.Equal(t, 7, s.DBMaxOpenConns)
	assert.Equal(t, "cache:6380", s.RedisAddr())
}

func TestPostgresDSN(t *testing.T) {
	s := Settings{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "bistro"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=bistro sslmode=disable", s.PostgresDSN())
}

func TestMustInitLoggerTeesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svc.log")
	logger := MustInitLogger(Settings{LogMode: "production", LogFile: path}, "test-svc")
	logger.Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"test-svc"`)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
