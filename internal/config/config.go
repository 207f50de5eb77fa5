// Package config loads server and CLI configuration with viper.
//
// Sources, lowest to highest precedence:
//  1. defaults (setDefaults)
//  2. an optional YAML file (config.yaml in . or ./config, or an explicit path)
//  3. environment variables: IDEABOARD_<SECTION>_<KEY>, plus the short names
//     PORT, DB_PATH, JWT_SECRET, GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET,
//     GOOGLE_CALLBACK_URL and SENTRY_DSN that older deployments already set
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every derived environment variable name.
const EnvPrefix = "IDEABOARD"

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr is the listen address for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig points at the SQLite file. ":memory:" is accepted for tests.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds session and Google OAuth settings.
type AuthConfig struct {
	JWTSecret          string        `mapstructure:"jwt_secret"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	SecureCookies      bool          `mapstructure:"secure_cookies"`
	GoogleClientID     string        `mapstructure:"google_client_id"`
	GoogleClientSecret string        `mapstructure:"google_client_secret"`
	GoogleCallbackURL  string        `mapstructure:"google_callback_url"`
	LoginRedirect      string        `mapstructure:"login_redirect"`
}

// GoogleEnabled reports whether both OAuth client credentials are set.
func (c AuthConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// SentryConfig enables error reporting when DSN is non-empty.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

// searchPaths are the directories searched for config.yaml, in order.
var searchPaths = []string{".", "./config", "/etc/idea-board"}

// Load reads configuration. An empty path searches for config.yaml and
// treats a missing file as fine; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults and env vars only.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.path", "data/ideas.db")

	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.secure_cookies", false)
	v.SetDefault("auth.google_callback_url", "http://localhost:8080/auth/google/callback")
	v.SetDefault("auth.login_redirect", "/")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("sentry.environment", "development")
}

// bindEnv registers every key explicitly. AutomaticEnv alone does not see
// keys that have neither a default nor a file value, which is the case for
// secrets. Each key also accepts its short legacy name where one exists.
func bindEnv(v *viper.Viper) error {
	short := map[string]string{
		"server.port":               "PORT",
		"database.path":             "DB_PATH",
		"auth.jwt_secret":           "JWT_SECRET",
		"auth.google_client_id":     "GOOGLE_CLIENT_ID",
		"auth.google_client_secret": "GOOGLE_CLIENT_SECRET",
		"auth.google_callback_url":  "GOOGLE_CALLBACK_URL",
		"sentry.dsn":                "SENTRY_DSN",
	}

	keys := []string{
		"server.port", "server.host", "server.read_timeout", "server.write_timeout",
		"server.idle_timeout", "server.shutdown_timeout", "server.allowed_origins",
		"database.path",
		"auth.jwt_secret", "auth.session_ttl", "auth.secure_cookies",
		"auth.google_client_id", "auth.google_client_secret", "auth.google_callback_url",
		"auth.login_redirect",
		"log.level", "log.format",
		"sentry.dsn", "sentry.environment",
	}

	for _, key := range keys {
		names := []string{key, envName(key)}
		if s, ok := short[key]; ok {
			names = append(names, s)
		}
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("binding env for %s: %w", key, err)
		}
	}
	return nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate checks the settings the HTTP server cannot run without. The CLI
// only needs the database and skips it.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 16 characters (set JWT_SECRET)"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
