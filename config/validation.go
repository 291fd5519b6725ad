package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type requiredField struct {
	name  string
	value func(*Config) string
}

var (
	baseRequirements = []requiredField{
		{"SERVER_PORT", func(c *Config) string { return c.ServerPort }},
		{"DB_HOST", func(c *Config) string { return c.DBHost }},
		{"DB_NAME", func(c *Config) string { return c.DBName }},
		{"DB_USER", func(c *Config) string { return c.DBUser }},
		{"DB_PASSWORD", func(c *Config) string { return c.DBPassword }},
		{"JWT_SECRET", func(c *Config) string { return c.JWTSecret }},
	}

	// Environment-specific requirements on top of baseRequirements
	requirements = map[Environment][]requiredField{
		Development: nil,
		Test:        nil,
		CI: {
			{"REDIS_URL", func(c *Config) string { return c.RedisURL }},
		},
		Production: {
			{"REDIS_URL", func(c *Config) string { return c.RedisURL }},
			{"FDC_API_KEY", func(c *Config) string { return c.FDCAPIKey }},
			{"LLM_API_KEY", func(c *Config) string { return c.LLMAPIKey }},
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []error
	for _, field := range append(append([]requiredField{}, baseRequirements...), requirements[env]...) {
		if field.value(cfg) == "" {
			errs = append(errs, ValidationError{Field: field.name, Message: "is required in " + string(env)})
		}
	}

	w := cfg.Similarity
	if w.Muscle < 0 || w.BodyPart < 0 || w.Equipment < 0 {
		errs = append(errs, ValidationError{Field: "SIMILARITY_*_WEIGHT", Message: "weights must not be negative"})
	}
	if w.Threshold < 0 || w.Threshold >= w.Muscle+w.BodyPart+w.Equipment {
		errs = append(errs, ValidationError{Field: "SIMILARITY_THRESHOLD", Message: "must be below the sum of the weights"})
	}

	return errors.Join(errs...)
}
