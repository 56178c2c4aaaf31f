package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "DB_HOST", "SERVICE_NAME", "JWT_EXPIRE", "ES_INDEX", "BANK_DESTINATION_ACCOUNT", "SEED_ON_START"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "capshop", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpire)
	assert.Equal(t, "gorras", cfg.ESIndex)
	assert.Equal(t, "0123456789", cfg.BankDestinationAccount)
	assert.Equal(t, "/img", cfg.UploadURLPrefix)
	assert.Equal(t, 10*time.Second, cfg.CheckoutLockTTL)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("DB_USER", "shop")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "gorras")
	t.Setenv("JWT_EXPIRE", "7d")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")

	cfg := Load()
	assert.Equal(t, "host=db port=5432 user=shop password=pw dbname=gorras sslmode=disable TimeZone=UTC", cfg.DatabaseURL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpire)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)

	t.Setenv("DATABASE_URL", "postgres://explicit")
	assert.Equal(t, "postgres://explicit", Load().DatabaseURL)
}
