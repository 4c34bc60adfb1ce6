package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 6, cfg.BoardRows)
	assert.Equal(t, 7, cfg.BoardColumns)
	assert.Equal(t, 30*time.Minute, cfg.RedisCacheTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/gravity")
	t.Setenv("BOARD_ROWS", "4")
	t.Setenv("BOARD_REQUIRE_EVEN_CELLS", "true")
	t.Setenv("FRONTEND_URL", "https://play.example")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://play.example,,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.BoardRows)
	assert.True(t, cfg.BoardRequireEvenCells)
	assert.Equal(t, []string{"https://play.example", "https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "postgres without url", mutate: func(c *Config) { c.StoreDriver = DriverPostgres }, wantErr: "DATABASE_URL"},
		{name: "sqlite without path", mutate: func(c *Config) { c.StoreDriver = DriverSQLite; c.SQLitePath = " " }, wantErr: "SQLITE_PATH"},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "mongo" }, wantErr: "unknown STORE_DRIVER"},
		{name: "empty board", mutate: func(c *Config) { c.BoardColumns = 0 }, wantErr: "at least 1x1"},
		{name: "no secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{StoreDriver: DriverMemory, SQLitePath: "x.db", BoardRows: 6, BoardColumns: 7, JWTSecret: "s"}
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
