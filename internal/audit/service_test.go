package audit_test

import (
	"testing"

	"propertyhub-backend/internal/audit"
	"propertyhub-backend/internal/database"
	"propertyhub-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuditDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db
	return db
}

func lastLog(t *testing.T, db *gorm.DB) models.AuditLog {
	var entry models.AuditLog
	require.NoError(t, db.Order("id DESC").First(&entry).Error)
	return entry
}

func TestUndoUpdateRestoresBeforeSnapshot(t *testing.T) {
	db := setupAuditDB(t)

	p := models.Property{Name: "Maple Court", City: "Halifax"}
	require.NoError(t, db.Create(&p).Error)

	before := p
	p.Name = "Maple Court West"
	require.NoError(t, db.Save(&p).Error)

	require.NoError(t, audit.WriteLog(1, "Admin", audit.Entry{
		EntityType:  "property",
		EntityID:    p.ID,
		Action:      models.AuditActionUpdate,
		Description: "Renamed property",
		Before:      before,
		After:       p,
	}))

	entry := lastLog(t, db)
	require.NoError(t, audit.UndoLog(entry.ID, 1, "Admin"))

	var restored models.Property
	require.NoError(t, db.First(&restored, p.ID).Error)
	assert.Equal(t, "Maple Court", restored.Name)

	// The undo itself is logged, and the original entry is closed out.
	undoEntry := lastLog(t, db)
	assert.Equal(t, models.AuditActionUndo, undoEntry.Action)

	require.NoError(t, db.First(&entry, entry.ID).Error)
	assert.True(t, entry.IsUndone)
	require.NotNil(t, entry.UndoneBy)
	assert.Equal(t, uint(1), *entry.UndoneBy)
}

func TestUndoDeleteRecreatesEntity(t *testing.T) {
	db := setupAuditDB(t)

	tenant := models.Tenant{Name: "Jordan Reyes", Email: "jordan@example.com"}
	require.NoError(t, db.Create(&tenant).Error)

	snapshot := tenant
	require.NoError(t, db.Delete(&tenant).Error)

	require.NoError(t, audit.WriteLog(1, "Admin", audit.Entry{
		EntityType:  "tenant",
		EntityID:    snapshot.ID,
		Action:      models.AuditActionDelete,
		Description: "Deleted tenant",
		Before:      snapshot,
	}))

	entry := lastLog(t, db)
	require.NoError(t, audit.UndoLog(entry.ID, 1, "Admin"))

	var recreated models.Tenant
	require.NoError(t, db.First(&recreated, "email = ?", "jordan@example.com").Error)
	assert.Equal(t, "Jordan Reyes", recreated.Name)
}

func TestUndoCreateDeletesEntity(t *testing.T) {
	db := setupAuditDB(t)

	u := models.Unit{UnitNumber: "A-101", PropertyID: 1, RentalMode: models.RentalModeBedroomWise, Bedrooms: 2}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&models.Bedroom{BedroomNumber: "A-101-1", RoomNumber: 1, UnitID: u.ID}).Error)

	require.NoError(t, audit.WriteLog(1, "Admin", audit.Entry{
		EntityType:  "unit",
		EntityID:    u.ID,
		Action:      models.AuditActionCreate,
		Description: "Created unit",
		After:       u,
	}))

	entry := lastLog(t, db)
	require.NoError(t, audit.UndoLog(entry.ID, 1, "Admin"))

	var unitCount, roomCount int64
	db.Model(&models.Unit{}).Where("id = ?", u.ID).Count(&unitCount)
	db.Model(&models.Bedroom{}).Where("unit_id = ?", u.ID).Count(&roomCount)
	assert.Zero(t, unitCount)
	assert.Zero(t, roomCount)
}

func TestUndoTwiceFails(t *testing.T) {
	db := setupAuditDB(t)

	p := models.Property{Name: "Maple Court"}
	require.NoError(t, db.Create(&p).Error)

	require.NoError(t, audit.WriteLog(1, "Admin", audit.Entry{
		EntityType: "property",
		EntityID:   p.ID,
		Action:     models.AuditActionCreate,
		After:      p,
	}))

	entry := lastLog(t, db)
	require.NoError(t, audit.UndoLog(entry.ID, 1, "Admin"))

	err := audit.UndoLog(entry.ID, 1, "Admin")
	assert.ErrorContains(t, err, "already been undone")
}
