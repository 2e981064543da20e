package lease

import (
	"errors"

	"propertyhub-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUnitOccupied    = errors.New("unit already has an active lease")
	ErrBedroomOccupied = errors.New("bedroom already has an active lease")
)

// TenantLeaseStatus derives the status badge for a tenant from its leases:
// Active wins over everything; otherwise the most recent lease decides
// between DRAFT and Expired; a tenant with no leases has no badge.
func TenantLeaseStatus(leases []models.Lease) string {
	if len(leases) == 0 {
		return "None"
	}

	latest := leases[0]
	for _, l := range leases {
		if l.Status == models.LeaseActive {
			return string(models.LeaseActive)
		}
		if l.StartDate.After(latest.StartDate) {
			latest = l
		}
	}

	if latest.Status == models.LeaseDraft {
		return string(models.LeaseDraft)
	}
	return string(models.LeaseExpired)
}

// checkActiveConflict enforces active-lease exclusivity: at most one Active
// lease per unit in FULL_UNIT mode, at most one per bedroom in BEDROOM_WISE
// mode. Runs inside the create transaction so two simultaneous requests
// cannot both pass the check and commit.
func checkActiveConflict(tx *gorm.DB, u *models.Unit, bedroomID *uint) error {
	if u.RentalMode == models.RentalModeBedroomWise && bedroomID != nil {
		var count int64
		if err := tx.Model(&models.Lease{}).
			Where("bedroom_id = ? AND status = ?", *bedroomID, models.LeaseActive).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrBedroomOccupied
		}
		return nil
	}

	var count int64
	if err := tx.Model(&models.Lease{}).
		Where("unit_id = ? AND bedroom_id IS NULL AND status = ?", u.ID, models.LeaseActive).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUnitOccupied
	}
	return nil
}
