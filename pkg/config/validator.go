package config

import (
	"errors"
	"fmt"
	"time"
)

// Validator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type Validator struct {
	errors []error
	name   string // config struct name for error messages
}

// NewValidator creates a new config validator with the given config name.
func NewValidator(configName string) *Validator {
	return &Validator{
		name:   configName,
		errors: make([]error, 0),
	}
}

// Required validates that a string field is not empty.
func (v *Validator) Required(field, value string) *Validator {
	if value == "" {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: required field is empty", v.name, field))
	}
	return v
}

// MinLength validates that a string field has at least min characters.
func (v *Validator) MinLength(field, value string, min int) *Validator {
	if len(value) < min {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: length %d is below minimum %d", v.name, field, len(value), min))
	}
	return v
}

// RangeInt validates that an int field is within the specified range.
func (v *Validator) RangeInt(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d is outside range [%d, %d]", v.name, field, value, min, max))
	}
	return v
}

// Positive validates that an int64 field is positive (> 0).
func (v *Validator) Positive(field string, value int64) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: value %d must be positive", v.name, field, value))
	}
	return v
}

// MinDuration validates that a duration is at least the minimum.
func (v *Validator) MinDuration(field string, value, min time.Duration) *Validator {
	if value < min {
		v.errors = append(v.errors, fmt.Errorf("%s.%s: duration %v is below minimum %v", v.name, field, value, min))
	}
	return v
}

// Err returns all collected errors joined, or nil if validation passed.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return errors.Join(v.errors...)
}
