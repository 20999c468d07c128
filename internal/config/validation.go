package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("output", validateOutput)
	v.RegisterValidation("timezone", validateTimezone)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateOutput(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "table", "json", "yaml":
		return true
	default:
		return false
	}
}

func validateTimezone(fl validator.FieldLevel) bool {
	_, err := time.LoadLocation(fl.Field().String())
	return err == nil
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.API.RetryWaitMaxMillis < cfg.API.RetryWaitMinMillis {
		return fmt.Errorf("api retry_wait_max_ms cannot be lower than retry_wait_min_ms")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedules := map[string]string{
		"races_schedule":   cfg.Watch.RacesSchedule,
		"bets_schedule":    cfg.Watch.BetsSchedule,
		"session_schedule": cfg.Watch.SessionSchedule,
	}
	for name, spec := range schedules {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("invalid watch %s %q: %w", name, spec, err)
		}
	}

	if cfg.Watch.MetricsEnabled && !strings.HasPrefix(cfg.Watch.MetricsPath, "/") {
		return fmt.Errorf("watch metrics_path must start with /")
	}

	// Production must talk to the API over TLS
	if cfg.IsProduction() && !strings.HasPrefix(cfg.API.GraphQLURL, "https://") {
		return fmt.Errorf("production environment requires an https graphql_url")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "output":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: table, json, yaml\n", field)
		case "timezone":
			errMsg += fmt.Sprintf("- Field '%s' must be an IANA timezone, got '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
