package config

import (
	"fmt"
	"net/url"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Service validation
	if c.Service.BaseURL == "" {
		errs = append(errs, "service.base_url must not be empty")
	} else if _, err := url.ParseRequestURI(c.Service.BaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("service.base_url is not a valid URL: %v", err))
	}
	if c.Service.APIKeyEnv == "" {
		errs = append(errs, "service.api_key_env must not be empty")
	}
	if !c.Service.Production && c.Service.LLMKeyEnv == "" {
		errs = append(errs, "service.llm_key_env must not be empty in non-production mode")
	}

	// Run validation
	if c.Run.MaxCalls < 1 {
		errs = append(errs, "run.max_calls must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
