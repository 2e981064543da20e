package importer_test

import (
	"testing"

	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/importer"
	"propertyhub-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupImportDB(t *testing.T) (*gorm.DB, models.Property) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	p := models.Property{Name: "Maple Court"}
	require.NoError(t, db.Create(&p).Error)
	return db, p
}

func TestImportRowsSkipsHeaderAndCreatesUnits(t *testing.T) {
	db, p := setupImportDB(t)

	rows := [][]string{
		{"Unit Number", "Type", "Floor", "Rental Mode", "Bedrooms"},
		{"A-101", "Apartment", "1", "Bedroom-wise", "4"},
		{"A-102", "Apartment", "1", "Full Unit", ""},
	}

	results, imported, err := importer.ImportRows(db, p.ID, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Empty(t, r.Error)
	}

	var u models.Unit
	require.NoError(t, db.First(&u, "unit_number = ?", "A-101").Error)
	assert.Equal(t, models.RentalModeBedroomWise, u.RentalMode)
	assert.Equal(t, 4, u.Bedrooms)

	var roomCount int64
	db.Model(&models.Bedroom{}).Where("unit_id = ?", u.ID).Count(&roomCount)
	assert.Equal(t, int64(4), roomCount)

	u = models.Unit{}
	require.NoError(t, db.First(&u, "unit_number = ?", "A-102").Error)
	assert.Equal(t, models.RentalModeFullUnit, u.RentalMode)
	assert.Equal(t, 1, u.Bedrooms)
}

func TestImportRowsReportsDuplicates(t *testing.T) {
	db, p := setupImportDB(t)

	require.NoError(t, db.Create(&models.Unit{
		UnitNumber: "A-101", PropertyID: p.ID, RentalMode: models.RentalModeFullUnit, Bedrooms: 1,
	}).Error)

	rows := [][]string{
		{"A-101", "Apartment", "1", "Full Unit", ""},
		{"A-102", "Apartment", "1", "Full Unit", ""},
	}

	results, imported, err := importer.ImportRows(db, p.ID, rows)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	require.Len(t, results, 2)
	assert.Equal(t, "unit number already exists in this property", results[0].Error)
	assert.Empty(t, results[1].Error)
}

func TestImportRowsSkipsBlankRows(t *testing.T) {
	db, p := setupImportDB(t)

	rows := [][]string{
		{"A-101", "Apartment", "1", "Full Unit", ""},
		{},
		{"   "},
		{"A-103", "Apartment", "2", "3", ""},
	}

	results, imported, err := importer.ImportRows(db, p.ID, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)
	assert.Len(t, results, 2)

	// The numeric mode code defaults the bedroom count to 3.
	var u models.Unit
	require.NoError(t, db.First(&u, "unit_number = ?", "A-103").Error)
	assert.Equal(t, models.RentalModeBedroomWise, u.RentalMode)
	assert.Equal(t, 3, u.Bedrooms)
}

func TestImportRowsUnknownProperty(t *testing.T) {
	db, _ := setupImportDB(t)

	_, _, err := importer.ImportRows(db, 999, [][]string{{"A-101"}})
	assert.Error(t, err)
}
