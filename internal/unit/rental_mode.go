package unit

import (
	"fmt"
	"strconv"
	"strings"

	"propertyhub-backend/internal/models"
)

// NormalizeRentalMode maps the historical client representations of the
// rental mode onto the canonical enum. Older frontends send numeric codes
// (1, 3), newer ones send labels or the enum value itself. Anything
// unrecognized falls back to the given mode: FULL_UNIT on create, the
// previously stored mode on update.
func NormalizeRentalMode(raw any, fallback models.RentalMode) models.RentalMode {
	switch v := raw.(type) {
	case string:
		switch strings.TrimSpace(v) {
		case "3", "Bedroom-wise", "BEDROOM_WISE":
			return models.RentalModeBedroomWise
		case "1", "Full Unit", "FULL_UNIT":
			return models.RentalModeFullUnit
		}
	case float64: // JSON numbers decode as float64
		if v == 3 {
			return models.RentalModeBedroomWise
		}
		if v == 1 {
			return models.RentalModeFullUnit
		}
	case int:
		if v == 3 {
			return models.RentalModeBedroomWise
		}
		if v == 1 {
			return models.RentalModeFullUnit
		}
	case models.RentalMode:
		if v == models.RentalModeBedroomWise || v == models.RentalModeFullUnit {
			return v
		}
	}
	return fallback
}

// parseCount reads an optional integer field that form-driven clients send
// either as a number or a numeric string. ok is false when the value is
// absent or unparseable.
func parseCount(raw any) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// parseID reads a numeric id sent as number or string.
func parseID(raw any) (uint, bool) {
	n, ok := parseCount(raw)
	if !ok || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

// bedroomLabel builds the display label for a room within a unit.
func bedroomLabel(unitNumber string, roomNumber int) string {
	return fmt.Sprintf("%s-%d", unitNumber, roomNumber)
}
