package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/granodigital/report-annotate/internal/matcher"
	"github.com/granodigital/report-annotate/internal/report"
)

// ValidateConfig checks if the global configuration has valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateHTTPConfig(&cfg.HttpClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateAnnotateConfig(&cfg.Annotate); err != nil {
		return fmt.Errorf("YAML global config: annotate directive is invalid: %w", err)
	}
	return nil
}

// ValidateAnnotateConfig checks the annotation directive: a non-negative cap,
// well-formed matchers and report references in "name=glob" form.
func ValidateAnnotateConfig(cfg *Annotate) error {
	if cfg == nil {
		return fmt.Errorf("annotate configuration is nil")
	}
	if cfg.MaxPerType < 0 {
		return fmt.Errorf("max_per_type cannot be negative: %d", cfg.MaxPerType)
	}
	if err := ValidateMatchers(cfg.Matchers); err != nil {
		return err
	}
	for _, ref := range cfg.Reports {
		if !strings.Contains(ref, "=") {
			return fmt.Errorf("report reference %q is not in name=glob form", ref)
		}
	}
	return nil
}

// ValidateMatchers checks every matcher specification: a registered format,
// the mandatory item and message selectors, and severity levels that are
// valid. The ignore severity is allowed inside level rules only.
func ValidateMatchers(matchers map[string]matcher.Spec) error {
	for name, spec := range matchers {
		if _, err := report.ParseFormat(spec.Format); err != nil {
			return fmt.Errorf("matcher %q: %w", name, err)
		}
		if strings.TrimSpace(spec.Item) == "" {
			return fmt.Errorf("matcher %q: item selector is required", name)
		}
		if strings.TrimSpace(spec.Message) == "" {
			return fmt.Errorf("matcher %q: message selector is required", name)
		}
		for _, rule := range spec.Levels {
			if strings.TrimSpace(rule.Expr) == "" {
				return fmt.Errorf("matcher %q: level %s has an empty selector", name, rule.Severity)
			}
		}
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configuration has valid values.
func ValidateHTTPConfig(httpConfig *HttpClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"retry_wait_time":     httpConfig.RetryWaitTime,
		"retry_max_wait_time": httpConfig.RetryMaxWaitTime,
		"timeout":             httpConfig.Timeout,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s cannot be negative: %s", name, d)
		}
	}
	return nil
}
