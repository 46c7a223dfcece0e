package errors

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// ValidateLongitude validates that an ecliptic longitude is a finite value
// in the half-open interval [0, 360).
//
// Longitudes outside the interval are rejected rather than coerced: a value
// of exactly 360 indicates an upstream normalization bug, and silently
// wrapping it would hide that.
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return New(ErrCodeInvalidLongitude, "longitude must be finite, got %v", lon)
	}
	if lon < 0 || lon >= 360 {
		return New(ErrCodeInvalidLongitude, "longitude out of range [0,360): %g", lon)
	}
	return nil
}

// ValidateBodyName validates a celestial body identifier.
// Identifiers are lowercase snake_case keys as returned by the position API
// (e.g. "sun", "mean_north_lunar_node").
func ValidateBodyName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidBody, "body name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidBody, "body name too long (max 64 characters)")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && r != '_' {
			return New(ErrCodeInvalidBody, "invalid body name %q: must be lowercase snake_case", name)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidatePluginUUID validates a TRMNL plugin identifier.
// The webhook endpoint embeds the UUID in its path, so a malformed value
// produces a confusing 404 from the platform; reject it up front instead.
func ValidatePluginUUID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPlugin, "plugin UUID cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidPlugin, err, "invalid plugin UUID %q", id)
	}
	return nil
}
