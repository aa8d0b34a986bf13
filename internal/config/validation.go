// Package config provides configuration management for Regulation Radar.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
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

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField applies validations spanning multiple sections
func validateCrossField(cfg *Config) error {
	if cfg.Database.Enabled {
		if cfg.Database.Host == "" || cfg.Database.Name == "" || cfg.Database.User == "" {
			return fmt.Errorf("database host, name and user are required when the prediction store is enabled")
		}
	}
	if cfg.XG.Enabled && cfg.XG.URL == "" {
		return fmt.Errorf("xg.url is required when the xG data source is enabled")
	}
	if cfg.Odds.Enabled && cfg.Odds.URL == "" {
		return fmt.Errorf("odds.url is required when the odds data source is enabled")
	}

	a := cfg.Analysis
	if a.ScoreMin != nil && a.ScoreMax != nil && *a.ScoreMin >= *a.ScoreMax {
		return fmt.Errorf("analysis.score_min must be below analysis.score_max")
	}
	if a.H2HLookbackPrimary != nil && a.H2HLookbackFallback != nil &&
		*a.H2HLookbackFallback > *a.H2HLookbackPrimary {
		return fmt.Errorf("analysis.h2h_lookback_fallback cannot exceed analysis.h2h_lookback_primary")
	}

	return nil
}

// formatValidationErrors converts validator errors to a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
