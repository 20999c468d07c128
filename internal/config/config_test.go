package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validConfigPath       = "testdata/valid_config.yaml"
	expansionConfigPath   = "testdata/expansion_config.yaml"
	partialConfigPath     = "testdata/partial_config.yaml"
	invalidYAMLPath       = "testdata/invalid_yaml.yaml"
	nonexistentConfigPath = "testdata/nonexistent_config.yaml"
)

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestLoadConfigSuccess(t *testing.T) {
	cfg := loadValid(t)

	assert.Equal(t, "p10", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "https://p10.example.com/graphql", cfg.API.GraphQLURL)
	assert.Equal(t, 0, cfg.API.MaxRetries)
	assert.Equal(t, 5.0, cfg.API.RateLimit)
	assert.Equal(t, "Europe/Paris", cfg.Display.Timezone)
	assert.Equal(t, "*/10 * * * *", cfg.Watch.BetsSchedule)
	assert.True(t, cfg.Watch.MetricsEnabled)
	assert.False(t, cfg.AWS.SecretsEnabled)
}

func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := Load(invalidYAMLPath)
	assert.Error(t, err)

	_, err = LoadWithDefaults(invalidYAMLPath)
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	t.Setenv("P10_APP_NAME", "override")
	t.Setenv("P10_API_MAX_RETRIES", "2")

	cfg := loadValid(t)
	assert.Equal(t, "override", cfg.App.Name)
	assert.Equal(t, 2, cfg.API.MaxRetries)
}

func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	t.Setenv("TEST_P10_GRAPHQL_URL", "https://expanded.example.com/graphql")
	t.Setenv("TEST_P10_STATE_DIR", "/tmp/expanded")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "https://expanded.example.com/graphql", cfg.API.GraphQLURL)
	assert.Equal(t, "/tmp/expanded", cfg.Session.StateDir)
}

func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	t.Setenv("TEST_P10_GRAPHQL_URL", "")
	t.Setenv("TEST_P10_STATE_DIR", "")

	cfg, err := Load(expansionConfigPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.API.GraphQLURL)

	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GraphQLURL")
	assert.Contains(t, err.Error(), "StateDir")
}

func TestLoadWithDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "p10", cfg.App.Name)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 0, cfg.API.MaxRetries, "retries are opt-in")
	assert.Equal(t, 60, cfg.API.CacheTTLSeconds)
	assert.Equal(t, "token", cfg.Session.TokenKey)
	assert.Equal(t, "table", cfg.Display.Output)
	assert.Equal(t, "@every 1m", cfg.Watch.SessionSchedule)
	assert.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsMergesFile(t *testing.T) {
	cfg, err := LoadWithDefaults(partialConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "https://partial.example.com/graphql", cfg.API.GraphQLURL)
	assert.Equal(t, "yaml", cfg.Display.Output)
	assert.Equal(t, 15, cfg.API.TimeoutSeconds, "unset keys keep their defaults")
	assert.NoError(t, Validate(cfg))
}

func TestLoadWithDefaultsEnvironmentOverride(t *testing.T) {
	t.Setenv("P10_DISPLAY_OUTPUT", "json")

	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Display.Output)
}

func TestValidateSuccess(t *testing.T) {
	assert.NoError(t, Validate(loadValid(t)))
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "invalid environment", mutate: func(c *Config) { c.App.Environment = "invalid" }, wantErr: "Environment"},
		{name: "invalid log level", mutate: func(c *Config) { c.App.LogLevel = "trace" }, wantErr: "LogLevel"},
		{name: "invalid output", mutate: func(c *Config) { c.Display.Output = "xml" }, wantErr: "table, json, yaml"},
		{name: "invalid timezone", mutate: func(c *Config) { c.Display.Timezone = "Mars/Olympus" }, wantErr: "IANA timezone"},
		{name: "invalid url", mutate: func(c *Config) { c.API.GraphQLURL = "not a url" }, wantErr: "valid URL"},
		{name: "negative retries", mutate: func(c *Config) { c.API.MaxRetries = -1 }, wantErr: "MaxRetries"},
		{name: "zero rate limit", mutate: func(c *Config) { c.API.RateLimit = 0 }, wantErr: "RateLimit"},
		{name: "invalid token key", mutate: func(c *Config) { c.Session.TokenKey = "../token" }, wantErr: "TokenKey"},
		{name: "retry waits inverted", mutate: func(c *Config) { c.API.RetryWaitMaxMillis = 10 }, wantErr: "retry_wait_max_ms"},
		{name: "invalid cron spec", mutate: func(c *Config) { c.Watch.RacesSchedule = "every now and then" }, wantErr: "races_schedule"},
		{name: "metrics path without slash", mutate: func(c *Config) { c.Watch.MetricsPath = "metrics" }, wantErr: "metrics_path"},
		{name: "metrics address missing", mutate: func(c *Config) { c.Watch.MetricsAddress = "" }, wantErr: "MetricsAddress"},
		{name: "production over http", mutate: func(c *Config) {
			c.App.Environment = "production"
			c.API.GraphQLURL = "http://p10.example.com/graphql"
		}, wantErr: "https"},
		{name: "secrets without region", mutate: func(c *Config) {
			c.AWS.SecretsEnabled = true
			c.AWS.SecretName = "p10/credentials"
		}, wantErr: "Region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadValid(t)
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateMetricsDisabledSkipsEndpoint(t *testing.T) {
	cfg := loadValid(t)
	cfg.Watch.MetricsEnabled = false
	cfg.Watch.MetricsAddress = ""
	cfg.Watch.MetricsPath = ""
	assert.NoError(t, Validate(cfg))
}

func TestEnvironmentChecks(t *testing.T) {
	tests := []struct {
		env                    string
		dev, staging, prodWant bool
	}{
		{env: "development", dev: true},
		{env: "staging", staging: true},
		{env: "production", prodWant: true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := &Config{App: AppConfig{Environment: tt.env}}
			assert.Equal(t, tt.dev, cfg.IsDevelopment())
			assert.Equal(t, tt.staging, cfg.IsStaging())
			assert.Equal(t, tt.prodWant, cfg.IsProduction())
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := loadValid(t)

	assert.Equal(t, 10*time.Second, cfg.APITimeout())
	lo, hi := cfg.RetryWait()
	assert.Equal(t, 200*time.Millisecond, lo)
	assert.Equal(t, 2*time.Second, hi)
	assert.Equal(t, 30*time.Second, cfg.CircuitBreakerReset())
	assert.Equal(t, time.Minute, cfg.CacheTTL())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
}

func TestStateDirExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := &Config{Session: SessionConfig{StateDir: "~/.p10"}}
	assert.Equal(t, filepath.Join(home, ".p10"), cfg.StateDir())

	cfg.Session.StateDir = "/var/lib/p10"
	assert.Equal(t, "/var/lib/p10", cfg.StateDir())
}

func TestLocation(t *testing.T) {
	cfg := loadValid(t)
	assert.Equal(t, "Europe/Paris", cfg.Location().String())

	cfg.Display.Timezone = "Nowhere/Special"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestResolvePath(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")
	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))
	assert.Equal(t, DefaultPath(), ResolvePath(""))

	t.Setenv(ConfigPathEnv, "/etc/p10.yaml")
	assert.Equal(t, "/etc/p10.yaml", ResolvePath(""))
	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))
}

type fakeSecrets struct {
	out  *secretsmanager.GetSecretValueOutput
	err  error
	asks []string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asks = append(f.asks, aws.ToString(in.SecretId))
	return f.out, f.err
}

func TestFetchCredentials(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		out     *secretsmanager.GetSecretValueOutput
		err     error
		want    *Credentials
		wantErr error
	}{
		{
			name: "secret string",
			out:  &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"email":"a@b.co","password":"hunter22"}`)},
			want: &Credentials{Email: "a@b.co", Password: "hunter22"},
		},
		{
			name: "secret binary",
			out:  &secretsmanager.GetSecretValueOutput{SecretBinary: []byte(`{"email":"a@b.co","password":"hunter22"}`)},
			want: &Credentials{Email: "a@b.co", Password: "hunter22"},
		},
		{
			name:    "empty secret",
			out:     &secretsmanager.GetSecretValueOutput{},
			wantErr: ErrNoSecretData,
		},
		{
			name:    "missing password",
			out:     &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"email":"a@b.co"}`)},
			wantErr: ErrIncompleteCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSecrets{out: tt.out, err: tt.err}
			got, err := FetchCredentials(ctx, client, "p10/credentials")
			assert.Equal(t, []string{"p10/credentials"}, client.asks)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("api failure", func(t *testing.T) {
		boom := errors.New("access denied")
		_, err := FetchCredentials(ctx, &fakeSecrets{err: boom}, "p10/credentials")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("malformed json", func(t *testing.T) {
		client := &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String("{")}}
		_, err := FetchCredentials(ctx, client, "p10/credentials")
		assert.Error(t, err)
	})
}

func TestLoadCredentialsFromAWS(t *testing.T) {
	ctx := context.Background()
	cfg := loadValid(t)

	_, err := LoadCredentialsFromAWS(ctx, cfg, &fakeSecrets{})
	assert.ErrorIs(t, err, ErrSecretsDisabled)

	cfg.AWS = AWSConfig{SecretsEnabled: true, Region: "eu-west-3", SecretName: "p10/credentials"}
	client := &fakeSecrets{out: &secretsmanager.GetSecretValueOutput{
		SecretString: aws.String(`{"email":"a@b.co","password":"hunter22","graphql_url":"https://other.example.com/graphql"}`),
	}}

	creds, err := LoadCredentialsFromAWS(ctx, cfg, client)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", creds.Email)
	assert.Equal(t, "https://other.example.com/graphql", cfg.API.GraphQLURL)
}
