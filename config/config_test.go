package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
http:
  address: ":9000"
  allowed_origins: ["https://scorer.example"]
jwt:
  secret: file-secret
  default_ttl: 2h
persistence:
  sink: xlsx
queue:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file", cfg.Postgres.DSN)
	assert.Equal(t, ":9000", cfg.HTTP.Address)
	assert.Equal(t, []string{"https://scorer.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWT.DefaultTTL)
	assert.Equal(t, SinkXLSX, cfg.Persistence.Sink)
	assert.Equal(t, "volley_history.xlsx", cfg.Persistence.XLSXPath)
	assert.True(t, cfg.Queue.Enabled)
	assert.Equal(t, 10, cfg.Queue.MaxAttempts)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file
jwt:
  secret: file-secret
`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("JWT_DEFAULT_TTL", "30m")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.JWT.DefaultTTL)
	assert.Equal(t, SinkPostgres, cfg.Persistence.Sink)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PERSISTENCE_SINK", "xlsx")
	t.Setenv("XLSX_PATH", "/tmp/history.xlsx")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "/tmp/history.xlsx", cfg.Persistence.XLSXPath)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Empty(t, cfg.NATS.URL)
	assert.Equal(t, "volley_roster.xlsx", cfg.Roster.XLSXPath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "postgres sink without dsn", body: "jwt:\n  secret: s\npersistence:\n  sink: postgres\n"},
		{name: "unknown sink", body: "jwt:\n  secret: s\npersistence:\n  sink: s3\n"},
		{name: "queue without dsn", body: "jwt:\n  secret: s\nqueue:\n  enabled: true\n"},
		{name: "missing jwt secret", body: "persistence:\n  sink: none\n"},
		{name: "bad ttl env", body: "jwt:\n  secret: s\n", env: map[string]string{"JWT_DEFAULT_TTL": "soon"}},
		{name: "bad yaml", body: "jwt: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
