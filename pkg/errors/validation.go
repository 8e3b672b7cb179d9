package errors

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// ValidateID validates a node identifier supplied from outside the process.
// It rejects names that could not round-trip through SVG id attributes.
//
// Validation rules:
//   - No empty ids
//   - Maximum length of 256 characters
//   - No control characters or whitespace
//   - No quotes or angle brackets
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidID, "id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id contains whitespace or control characters: %q", id)
		}
	}

	if strings.ContainsAny(id, "\"'<>&") {
		return New(ErrCodeInvalidID, "id contains markup characters: %q", id)
	}

	return nil
}

// ValidateBuffer checks that a buffer fraction lies in (0, 1].
func ValidateBuffer(name string, buffer float64) error {
	if math.IsNaN(buffer) || buffer <= 0 || buffer > 1 {
		return New(ErrCodeInvalidConfig, "%s buffer must be in (0, 1], got %g", name, buffer)
	}
	return nil
}

// ValidateExtent checks that a width or height is finite and positive.
func ValidateExtent(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be a positive finite number, got %g", name, v)
	}
	return nil
}

// ValidateFinite checks that a coordinate is finite.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %g", name, v)
	}
	return nil
}

// ValidatePattern checks that an id pattern formats exactly one integer,
// e.g. "hole_%02d".
func ValidatePattern(name, pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidConfig, "%s pattern cannot be empty", name)
	}
	if strings.Count(pattern, "%") != 1 || !strings.HasSuffix(verb(pattern), "d") {
		return New(ErrCodeInvalidConfig, "%s pattern %q must contain exactly one integer verb such as %%02d", name, pattern)
	}
	if out := fmt.Sprintf(pattern, 1); strings.Contains(out, "%!") {
		return New(ErrCodeInvalidConfig, "%s pattern %q is not a valid format", name, pattern)
	}
	return nil
}

// verb returns the formatting directive in pattern, from '%' up to and
// including its verb letter.
func verb(pattern string) string {
	i := strings.IndexByte(pattern, '%')
	if i < 0 {
		return ""
	}
	for j := i + 1; j < len(pattern); j++ {
		if unicode.IsLetter(rune(pattern[j])) {
			return pattern[i : j+1]
		}
	}
	return pattern[i:]
}
