package config

import (
	"errors"
	"fmt"
)

// ConfigValidator provides a fluent interface for cross-field configuration
// checks. It collects all validation errors rather than failing on the first
// one.
type ConfigValidator struct {
	errors []error
	name   string // config struct name for error messages
}

// NewConfigValidator creates a new config validator with the given config name
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{
		name:   configName,
		errors: make([]error, 0),
	}
}

// PositiveFloat validates that a float field is positive (> 0)
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if value <= 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g must be positive", cv.name, field, value))
	}
	return cv
}

// LessThan validates that one field stays strictly below another
func (cv *ConfigValidator) LessThan(field string, value float64, otherField string, other float64) *ConfigValidator {
	if value >= other {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g must be below %s (%g)",
			cv.name, field, value, otherField, other))
	}
	return cv
}

// AtMostFloat validates that a float field does not exceed a maximum
func (cv *ConfigValidator) AtMostFloat(field string, value, max float64) *ConfigValidator {
	if value > max {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g exceeds maximum %g", cv.name, field, value, max))
	}
	return cv
}

// RangeFloat validates that a float field is within the specified range
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if value < min || value > max {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %g is outside range [%g, %g]",
			cv.name, field, value, min, max))
	}
	return cv
}

// Result returns all collected errors joined, or nil when everything passed
func (cv *ConfigValidator) Result() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return errors.Join(cv.errors...)
}
