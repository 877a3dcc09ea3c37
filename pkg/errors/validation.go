package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidOptions, "%s must be a finite number, got %v", name, v)
	}
	return nil
}

// ValidatePositive requires a finite value strictly greater than zero.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidOptions, "%s must be greater than 0, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative requires a finite value greater than or equal to zero.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidOptions, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateUnitInterval requires 0 <= v < 1.
func ValidateUnitInterval(name string, v float64) error {
	if err := ValidateNonNegative(name, v); err != nil {
		return err
	}
	if v >= 1 {
		return New(ErrCodeInvalidOptions, "%s must be less than 1, got %v", name, v)
	}
	return nil
}

// ValidatePath validates a user supplied input path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path has leading or trailing whitespace")
	}

	return nil
}
