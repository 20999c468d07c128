package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

const (
	errLoadAWSConfig           = "failed to load AWS config: %w"
	errGetSecretFromAWSSecrets = "failed to get secret from AWS Secrets Manager: %w"
	errParseSecretJSON         = "failed to parse secret JSON: %w"
	errParseSecretBinary       = "failed to parse secret binary: %w"
)

var (
	// ErrNoSecretData is returned when the secret holds neither a string nor a binary value
	ErrNoSecretData = errors.New("no secret data found in AWS Secrets Manager")
	// ErrSecretsDisabled is returned when the overlay is requested but not configured
	ErrSecretsDisabled = errors.New("aws secrets overlay is disabled: set aws.secrets_enabled")
	// ErrIncompleteCredentials is returned when the secret lacks an email or a password
	ErrIncompleteCredentials = errors.New("secret must hold both email and password")
)

// Credentials are the login credentials stored in AWS Secrets Manager
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// GraphQLURL optionally points the client at another API
	GraphQLURL string `json:"graphql_url,omitempty"`
}

// SecretsClient is the part of the Secrets Manager API used here
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// NewSecretsClient builds a Secrets Manager client from the default AWS credential chain
func NewSecretsClient(ctx context.Context, region string) (SecretsClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf(errLoadAWSConfig, err)
	}
	return secretsmanager.NewFromConfig(awsCfg), nil
}

// FetchCredentials retrieves login credentials from the named secret
func FetchCredentials(ctx context.Context, client SecretsClient, secretName string) (*Credentials, error) {
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf(errGetSecretFromAWSSecrets, err)
	}

	creds, err := parseSecretData(result)
	if err != nil {
		return nil, err
	}
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrIncompleteCredentials
	}
	return creds, nil
}

// parseSecretData parses secret data from AWS response
func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*Credentials, error) {
	var creds Credentials
	switch {
	case result.SecretString != nil:
		if err := json.Unmarshal([]byte(*result.SecretString), &creds); err != nil {
			return nil, fmt.Errorf(errParseSecretJSON, err)
		}
	case result.SecretBinary != nil:
		if err := json.Unmarshal(result.SecretBinary, &creds); err != nil {
			return nil, fmt.Errorf(errParseSecretBinary, err)
		}
	default:
		return nil, ErrNoSecretData
	}
	return &creds, nil
}

// overlaySecretsOnConfig applies secret values that also live in the configuration
func overlaySecretsOnConfig(cfg *Config, creds *Credentials) {
	if creds.GraphQLURL != "" {
		cfg.API.GraphQLURL = creds.GraphQLURL
	}
}

// LoadCredentialsFromAWS fetches login credentials using cfg.AWS and overlays any
// configuration they carry onto cfg
func LoadCredentialsFromAWS(ctx context.Context, cfg *Config, client SecretsClient) (*Credentials, error) {
	if !cfg.AWS.SecretsEnabled {
		return nil, ErrSecretsDisabled
	}

	if client == nil {
		var err error
		client, err = NewSecretsClient(ctx, cfg.AWS.Region)
		if err != nil {
			return nil, err
		}
	}

	creds, err := FetchCredentials(ctx, client, cfg.AWS.SecretName)
	if err != nil {
		return nil, err
	}

	overlaySecretsOnConfig(cfg, creds)
	return creds, nil
}
