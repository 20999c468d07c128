// Package config provides configuration management for the p10 client.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete client configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	API     APIConfig     `mapstructure:"api" validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
	Display DisplayConfig `mapstructure:"display" validate:"required"`
	Watch   WatchConfig   `mapstructure:"watch" validate:"required"`
	AWS     AWSConfig     `mapstructure:"aws"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// APIConfig represents the upstream GraphQL API configuration
type APIConfig struct {
	GraphQLURL                 string  `mapstructure:"graphql_url" validate:"required,url"`
	UserAgent                  string  `mapstructure:"user_agent"`
	TimeoutSeconds             int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries                 int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryWaitMinMillis         int     `mapstructure:"retry_wait_min_ms" validate:"gte=0"`
	RetryWaitMaxMillis         int     `mapstructure:"retry_wait_max_ms" validate:"gte=0"`
	RateLimit                  float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax          int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	CircuitBreakerResetSeconds int     `mapstructure:"circuit_breaker_reset_seconds" validate:"required,gt=0"`
	CacheTTLSeconds            int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// SessionConfig represents where the session token is persisted
type SessionConfig struct {
	StateDir string `mapstructure:"state_dir" validate:"required"`
	TokenKey string `mapstructure:"token_key" validate:"required,alphanum"`
}

// DisplayConfig represents output preferences
type DisplayConfig struct {
	Output   string `mapstructure:"output" validate:"required,output"`
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
}

// WatchConfig represents the watch mode schedules and its metrics endpoint
type WatchConfig struct {
	RacesSchedule    string `mapstructure:"races_schedule" validate:"required"`
	BetsSchedule     string `mapstructure:"bets_schedule" validate:"required"`
	SessionSchedule  string `mapstructure:"session_schedule" validate:"required"`
	MetricsEnabled   bool   `mapstructure:"metrics_enabled"`
	MetricsAddress   string `mapstructure:"metrics_address" validate:"required_if=MetricsEnabled true"`
	MetricsPath      string `mapstructure:"metrics_path" validate:"required_if=MetricsEnabled true"`
	ShutdownSeconds  int    `mapstructure:"shutdown_seconds" validate:"gte=0"`
	CountdownEnabled bool   `mapstructure:"countdown_enabled"`
}

// AWSConfig represents the optional Secrets Manager credential overlay
type AWSConfig struct {
	SecretsEnabled bool   `mapstructure:"secrets_enabled"`
	Region         string `mapstructure:"region" validate:"required_if=SecretsEnabled true"`
	SecretName     string `mapstructure:"secret_name" validate:"required_if=SecretsEnabled true"`
}

// IsDevelopment checks if the client is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the client is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the client is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// APITimeout returns the per-request timeout
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RetryWait returns the minimum and maximum backoff between retries
func (c *Config) RetryWait() (time.Duration, time.Duration) {
	return time.Duration(c.API.RetryWaitMinMillis) * time.Millisecond,
		time.Duration(c.API.RetryWaitMaxMillis) * time.Millisecond
}

// CircuitBreakerReset returns how long the breaker stays open
func (c *Config) CircuitBreakerReset() time.Duration {
	return time.Duration(c.API.CircuitBreakerResetSeconds) * time.Second
}

// CacheTTL returns the query cache lifetime, zero disabling the cache
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.API.CacheTTLSeconds) * time.Second
}

// ShutdownTimeout returns the grace period of the watch metrics server
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Watch.ShutdownSeconds) * time.Second
}

// StateDir returns the session state directory with a leading ~ expanded
func (c *Config) StateDir() string {
	return expandHome(c.Session.StateDir)
}

// Location returns the display timezone, UTC when it cannot be loaded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Display.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
