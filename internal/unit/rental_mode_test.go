package unit

import (
	"testing"

	"propertyhub-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRentalMode(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		fallback models.RentalMode
		want     models.RentalMode
	}{
		{"numeric 3", float64(3), models.RentalModeFullUnit, models.RentalModeBedroomWise},
		{"numeric 1", float64(1), models.RentalModeBedroomWise, models.RentalModeFullUnit},
		{"int 3", 3, models.RentalModeFullUnit, models.RentalModeBedroomWise},
		{"string 3", "3", models.RentalModeFullUnit, models.RentalModeBedroomWise},
		{"string 1", "1", models.RentalModeBedroomWise, models.RentalModeFullUnit},
		{"label bedroom-wise", "Bedroom-wise", models.RentalModeFullUnit, models.RentalModeBedroomWise},
		{"label full unit", "Full Unit", models.RentalModeBedroomWise, models.RentalModeFullUnit},
		{"enum value", "BEDROOM_WISE", models.RentalModeFullUnit, models.RentalModeBedroomWise},
		{"enum type", models.RentalModeFullUnit, models.RentalModeBedroomWise, models.RentalModeFullUnit},
		{"padded label", "  Bedroom-wise  ", models.RentalModeFullUnit, models.RentalModeBedroomWise},
		{"garbage falls back on create", "penthouse", models.RentalModeFullUnit, models.RentalModeFullUnit},
		{"garbage keeps stored mode on update", "penthouse", models.RentalModeBedroomWise, models.RentalModeBedroomWise},
		{"nil falls back", nil, models.RentalModeFullUnit, models.RentalModeFullUnit},
		{"unknown number falls back", float64(7), models.RentalModeBedroomWise, models.RentalModeBedroomWise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRentalMode(tt.raw, tt.fallback))
		})
	}
}

func TestNormalizeRentalModeIdempotent(t *testing.T) {
	// Normalizing an already-normalized value must not change it.
	for _, mode := range []models.RentalMode{models.RentalModeFullUnit, models.RentalModeBedroomWise} {
		once := NormalizeRentalMode(string(mode), models.RentalModeFullUnit)
		twice := NormalizeRentalMode(once, models.RentalModeFullUnit)
		assert.Equal(t, mode, once)
		assert.Equal(t, once, twice)
	}
}

func TestParseCount(t *testing.T) {
	n, ok := parseCount(float64(5))
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	n, ok = parseCount("4")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = parseCount("abc")
	assert.False(t, ok)

	_, ok = parseCount(nil)
	assert.False(t, ok)
}

func TestBedroomLabel(t *testing.T) {
	assert.Equal(t, "A-101-1", bedroomLabel("A-101", 1))
	assert.Equal(t, "B2-12", bedroomLabel("B2", 12))
}
