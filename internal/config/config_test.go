package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRES_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "ORD", cfg.OrderNumberPrefix)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=campus_market")
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET is required")
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "abc")

	_, err := Load()
	assert.ErrorContains(t, err, "POSTGRES_PORT must be number")
}

func TestPostgresDSN_PrefersDatabaseURL(t *testing.T) {
	cfg := Config{DatabaseURL: "postgres://u:p@db:5432/x"}
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.PostgresDSN())
}
