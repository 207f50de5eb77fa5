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

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "data/ideas.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "/", cfg.Auth.LoginRedirect)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Sentry.DSN)
	assert.False(t, cfg.Auth.GoogleEnabled())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  allowed_origins:
    - https://ideas.example.com
database:
  path: /var/lib/ideas/ideas.db
auth:
  jwt_secret: file-secret-0123456789
  session_ttl: 2h
log:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://ideas.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/var/lib/ideas/ideas.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_SearchPaths(t *testing.T) {
	assert.Equal(t, []string{".", "./config", "/etc/idea-board"}, searchPaths)

	// stand-in for /etc/idea-board, which tests cannot write to
	dir := filepath.Dir(writeConfig(t, "server:\n  port: 7070\n"))
	saved := searchPaths
	searchPaths = []string{".", "./config", dir}
	t.Cleanup(func() { searchPaths = saved })
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	t.Setenv("IDEABOARD_SERVER_PORT", "7070")
	t.Setenv("IDEABOARD_LOG_LEVEL", "debug")
	t.Setenv("JWT_SECRET", "env-secret-0123456789")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("DB_PATH", "/tmp/ideas.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "env-secret-0123456789", cfg.Auth.JWTSecret)
	assert.Equal(t, "/tmp/ideas.db", cfg.Database.Path)
	assert.True(t, cfg.Auth.GoogleEnabled())
}

func TestLoad_ShortPortName(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "3001")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3001, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Path: "ideas.db"},
			Auth:     AuthConfig{JWTSecret: "0123456789abcdef", SessionTTL: time.Hour},
			Log:      LogConfig{Format: "text"},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"no database", func(c *Config) { c.Database.Path = "" }},
		{"zero ttl", func(c *Config) { c.Auth.SessionTTL = 0 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, ":8080", ServerConfig{Port: 8080}.Addr())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Addr())
}
