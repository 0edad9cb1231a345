package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 外の環境変数の影響を受けないように空にする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "GO_ENV", "LOG_LEVEL", "STORE_DRIVER", "DATABASE_URL",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE",
		"MONGODB_URI", "MONGODB_DATABASE", "JWT_SECRET", "JWT_TTL", "TAX_RATE", "SEED_PRODUCTS", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "0.08", cfg.TaxRate.String())
	assert.True(t, cfg.SeedProducts)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=app sslmode=disable", cfg.PostgresDSN())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestLoad_MongoRequiresURI(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGODB_URI", "")

	_, err := Load()
	assert.EqualError(t, err, "MONGODB_URI is required")
}

func TestLoad_UnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", ":9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/shop")
	t.Setenv("TAX_RATE", "0.1")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("SEED_PRODUCTS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "postgres://u:p@db:5432/shop", cfg.PostgresDSN())
	assert.Equal(t, "0.1", cfg.TaxRate.String())
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.SeedProducts)
}

func TestLoad_InvalidNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("POSTGRES_PORT", "abc")

	_, err := Load()
	assert.Error(t, err)
}
