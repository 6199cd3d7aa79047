package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("ELECTORAL_ADDR", "")
	t.Setenv("SIGNED_URL_TTL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("JWT_TTL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 300*time.Second, cfg.Storage.SignedURLTTL)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ELECTORAL_ADDR", ":9000")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("AUTO_MIGRATE", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Server.JWTTTL)
	assert.True(t, cfg.AutoMigrate)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("JWT_TTL", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
