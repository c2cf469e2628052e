package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VEHICLE_SERVICE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_PUBLISH_TIMEOUT", "")
	t.Setenv("DOWNSTREAM_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, ":8085", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "http://vehicle-service:8081", cfg.Services.VehicleURL)
	assert.Equal(t, 10*time.Second, cfg.Services.HTTPTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout)
	assert.Empty(t, cfg.Auth.OIDCIssuer)
	assert.Len(t, cfg.Kafka.Topics.All(), 5)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("VEHICLE_SERVICE_URL", "http://vehicles.local/")
	t.Setenv("PAYMENT_SERVICE_URL", "http://payments.local///")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("DOWNSTREAM_TIMEOUT", "3s")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("KAFKA_PUBLISH_TIMEOUT", "500ms")

	cfg := Load()

	assert.Equal(t, "http://vehicles.local", cfg.Services.VehicleURL)
	assert.Equal(t, "http://payments.local", cfg.Services.PaymentURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Services.HTTPTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 500*time.Millisecond, cfg.Kafka.PublishTimeout)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DOWNSTREAM_TIMEOUT", "soon")
	t.Setenv("REDIS_ENABLED", "maybe")
	t.Setenv("DB_MAX_IDLE_CONNS", "lots")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.Services.HTTPTimeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 25, cfg.Database.MaxIdleConns)
}
