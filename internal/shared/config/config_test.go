package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, int64(50), cfg.Fare.ServiceFee)
	assert.InDelta(t, 0.05, cfg.Fare.GSTRate, 1e-9)
	assert.Equal(t, "simulated", cfg.Payment.Provider)
	assert.Equal(t, 30*time.Minute, cfg.Flow.SessionTTL)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, cfg.Redis.Host+":"+cfg.Redis.Port, cfg.Redis.Addr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FARE_SERVICE_FEE", "75")
	t.Setenv("FARE_GST_RATE", "0.18")
	t.Setenv("FLOW_SESSION_TTL", "10m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("JWT_EXPIRES_IN", "120")

	cfg := Load()

	assert.Equal(t, int64(75), cfg.Fare.ServiceFee)
	assert.InDelta(t, 0.18, cfg.Fare.GSTRate, 1e-9)
	assert.Equal(t, 10*time.Minute, cfg.Flow.SessionTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Minute, cfg.JWT.JWTExpiresIn)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("FARE_SERVICE_FEE", "fifty")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, int64(50), cfg.Fare.ServiceFee)
	assert.True(t, cfg.RateLimit.Enabled)
}
