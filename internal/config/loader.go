package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. P10_API_GRAPHQL_URL
	EnvPrefix = "P10"
	// ConfigPathEnv names the variable pointing at the config file
	ConfigPathEnv = "P10_CONFIG_PATH"

	defaultConfigFile = "config.yaml"
	defaultStateDir   = "~/.p10"
)

// DefaultPath returns the config file used when neither a flag nor P10_CONFIG_PATH is set
func DefaultPath() string {
	return filepath.Join(expandHome(defaultStateDir), defaultConfigFile)
}

// ResolvePath picks the config file: the flag value, then P10_CONFIG_PATH, then DefaultPath
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		return envPath
	}
	return DefaultPath()
}

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
// The file must exist.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error: defaults and environment variables are used.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath()
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "p10")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "warn")

	v.SetDefault("api.graphql_url", "http://localhost:4000/graphql")
	v.SetDefault("api.user_agent", "p10-cli")
	v.SetDefault("api.timeout_seconds", 15)
	v.SetDefault("api.max_retries", 0)
	v.SetDefault("api.retry_wait_min_ms", 200)
	v.SetDefault("api.retry_wait_max_ms", 5000)
	v.SetDefault("api.rate_limit", 10.0)
	v.SetDefault("api.circuit_breaker_max", 5)
	v.SetDefault("api.circuit_breaker_reset_seconds", 30)
	v.SetDefault("api.cache_ttl_seconds", 60)

	v.SetDefault("session.state_dir", defaultStateDir)
	v.SetDefault("session.token_key", "token")

	v.SetDefault("display.output", "table")
	v.SetDefault("display.timezone", "Local")

	v.SetDefault("watch.races_schedule", "@every 5m")
	v.SetDefault("watch.bets_schedule", "@every 10m")
	v.SetDefault("watch.session_schedule", "@every 1m")
	v.SetDefault("watch.metrics_enabled", false)
	v.SetDefault("watch.metrics_address", ":9110")
	v.SetDefault("watch.metrics_path", "/metrics")
	v.SetDefault("watch.shutdown_seconds", 5)
	v.SetDefault("watch.countdown_enabled", true)

	v.SetDefault("aws.secrets_enabled", false)
	v.SetDefault("aws.region", "")
	v.SetDefault("aws.secret_name", "")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
