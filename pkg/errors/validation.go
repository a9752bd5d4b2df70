package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateFinite returns a usage error if v is NaN or infinite.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeUsage, "%s must be a finite number, got %v", name, v)
	}
	return nil
}

// ValidatePositive returns a usage error unless v is finite and > 0.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeUsage, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateNonNegative returns a usage error unless v is finite and >= 0.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeUsage, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateProbability returns a usage error unless v lies in [0, 1].
func ValidateProbability(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 || v > 1 {
		return New(ErrCodeUsage, "%s must lie in [0, 1], got %g", name, v)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateNodeID rejects node identifiers that cannot round-trip through the
// JSON and DOT formats.
func ValidateNodeID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}
	return nil
}
