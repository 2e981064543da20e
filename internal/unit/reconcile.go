package unit

import (
	"propertyhub-backend/internal/models"

	"gorm.io/gorm"
)

// CreateBedrooms creates count bedroom rows for a unit, numbered from
// startRoom+1 upward. Existing rooms are never renumbered; new rooms simply
// continue the sequence with the unit's current unit number as label prefix.
// Also used by the bulk importer.
func CreateBedrooms(tx *gorm.DB, u *models.Unit, startRoom, count int) error {
	if count <= 0 {
		return nil
	}

	bedrooms := make([]models.Bedroom, 0, count)
	for i := 0; i < count; i++ {
		roomNumber := startRoom + i + 1
		bedrooms = append(bedrooms, models.Bedroom{
			BedroomNumber: bedroomLabel(u.UnitNumber, roomNumber),
			RoomNumber:    roomNumber,
			UnitID:        u.ID,
			Status:        models.StatusVacant,
			RentAmount:    0,
		})
	}
	return tx.Create(&bedrooms).Error
}

// reconcileBedrooms adjusts a unit's bedroom rows to the declared target
// count. Only runs for BEDROOM_WISE units (callers guard on the effective
// mode after update).
//
// Grow: new rooms continue numbering from the current count.
// Shrink: only Vacant rooms may be deleted, highest room number first, so
// the surviving roster keeps the lowest numbers. When the vacant stock
// cannot cover the shortfall, delete what is available and leave the unit
// over its declared count; occupied rooms are never touched.
func reconcileBedrooms(tx *gorm.DB, u *models.Unit, target int) error {
	var existing []models.Bedroom
	if err := tx.Where("unit_id = ?", u.ID).Order("room_number ASC").Find(&existing).Error; err != nil {
		return err
	}
	current := len(existing)

	switch {
	case target > current:
		return CreateBedrooms(tx, u, current, target-current)

	case target < current:
		shortfall := current - target

		vacant := make([]models.Bedroom, 0, current)
		for _, b := range existing {
			if b.Status == models.StatusVacant {
				vacant = append(vacant, b)
			}
		}
		// Highest room number goes first.
		ids := make([]uint, 0, shortfall)
		for i := len(vacant) - 1; i >= 0 && len(ids) < shortfall; i-- {
			ids = append(ids, vacant[i].ID)
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&models.Bedroom{}).Error
	}

	return nil
}
