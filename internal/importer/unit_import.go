package importer

import (
	"fmt"
	"strconv"
	"strings"

	"propertyhub-backend/internal/models"
	"propertyhub-backend/internal/unit"

	"gorm.io/gorm"
)

// RowResult reports the outcome of one spreadsheet row.
type RowResult struct {
	Row        int    `json:"row"`
	UnitNumber string `json:"unitNumber"`
	Error      string `json:"error,omitempty"`
}

// Columns expected, in order: unit number, unit type, floor, rental mode,
// bedroom count. Rental mode and bedroom count go through the same
// normalization as the create-unit endpoint, so "Bedroom-wise", "3" and
// BEDROOM_WISE rows all behave alike.
func ImportRows(db *gorm.DB, propertyID uint, rows [][]string) ([]RowResult, int, error) {
	var property models.Property
	if err := db.First(&property, "id = ?", propertyID).Error; err != nil {
		return nil, 0, fmt.Errorf("property not found")
	}

	startIndex := 0
	if len(rows) > 0 && len(rows[0]) > 0 {
		// Header row detection: skip when the first cell looks like a label.
		first := strings.ToUpper(strings.TrimSpace(rows[0][0]))
		if strings.Contains(first, "UNIT") {
			startIndex = 1
		}
	}

	results := make([]RowResult, 0, len(rows))
	imported := 0

	for i := startIndex; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		unitNumber := strings.TrimSpace(row[0])
		result := RowResult{Row: rowNum, UnitNumber: unitNumber}

		var dup int64
		db.Model(&models.Unit{}).
			Where("property_id = ? AND unit_number = ?", propertyID, unitNumber).
			Count(&dup)
		if dup > 0 {
			result.Error = "unit number already exists in this property"
			results = append(results, result)
			continue
		}

		unitType := cell(row, 1)

		var floor *int
		if f, err := strconv.Atoi(cell(row, 2)); err == nil {
			floor = &f
		}

		var modeRaw any
		if v := cell(row, 3); v != "" {
			modeRaw = v
		}
		mode := unit.NormalizeRentalMode(modeRaw, models.RentalModeFullUnit)

		numBedrooms, err := strconv.Atoi(cell(row, 4))
		if err != nil || numBedrooms <= 0 {
			if mode == models.RentalModeBedroomWise {
				numBedrooms = 3
			} else {
				numBedrooms = 1
			}
		}

		newUnit := models.Unit{
			UnitNumber: unitNumber,
			UnitType:   unitType,
			Floor:      floor,
			PropertyID: propertyID,
			RentalMode: mode,
			Bedrooms:   numBedrooms,
			Status:     models.StatusVacant,
			RentAmount: 0,
		}

		txErr := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&newUnit).Error; err != nil {
				return err
			}
			if mode == models.RentalModeBedroomWise {
				return unit.CreateBedrooms(tx, &newUnit, 0, numBedrooms)
			}
			return nil
		})
		if txErr != nil {
			result.Error = "could not create unit"
			results = append(results, result)
			continue
		}

		imported++
		results = append(results, result)
	}

	return results, imported, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
