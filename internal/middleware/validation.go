package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field length limits matching database schema constraints.
const (
	MaxUserIDLen   = 64   // users.user_id VARCHAR(64)
	MaxReportIDLen = 64   // trash_reports.report_id VARCHAR(64)
	MaxAreaIDLen   = 64   // area_cleanings.area_id VARCHAR(64)
	MaxImageURLLen = 2048 // image columns TEXT, capped at request level
)

var (
	// idRe matches engine and provider identifiers: alphanumeric, dash,
	// underscore.
	idRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateUserID checks that a user ID is well-formed and within DB limits.
func ValidateUserID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "userId is required"
	}
	if len(id) > MaxUserIDLen {
		return "", "userId must be at most 64 characters"
	}
	if !idRe.MatchString(id) {
		return "", "userId contains invalid characters"
	}
	return id, ""
}

// ValidateReportID checks that a trash report ID is well-formed.
func ValidateReportID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "reportId is required"
	}
	if len(id) > MaxReportIDLen {
		return "", "reportId must be at most 64 characters"
	}
	if !idRe.MatchString(id) {
		return "", "reportId contains invalid characters"
	}
	return id, ""
}

// ValidateAreaID checks that an area cleaning ID is well-formed.
func ValidateAreaID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "areaId is required"
	}
	if len(id) > MaxAreaIDLen {
		return "", "areaId must be at most 64 characters"
	}
	if !idRe.MatchString(id) {
		return "", "areaId contains invalid characters"
	}
	return id, ""
}

// ValidateCoordinates checks that a lat/lng pair is on the globe.
func ValidateCoordinates(lat, lng float64) string {
	if lat < -90 || lat > 90 {
		return "lat must be between -90 and 90"
	}
	if lng < -180 || lng > 180 {
		return "lng must be between -180 and 180"
	}
	return ""
}

// ValidateImageURL checks that an image reference is an http(s) URL or an
// inline data URI, within request limits.
func ValidateImageURL(url string) (string, string) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", "imageUrl is required"
	}
	if len(url) > MaxImageURLLen {
		return "", "imageUrl is too long"
	}
	if !strings.HasPrefix(url, "http://") &&
		!strings.HasPrefix(url, "https://") &&
		!strings.HasPrefix(url, "data:image/") {
		return "", "imageUrl must be an http(s) URL or data URI"
	}
	return url, ""
}
