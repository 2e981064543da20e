package insurance

import "time"

const (
	StatusActive       = "Active"
	StatusExpiringSoon = "Expiring Soon"
	StatusExpired      = "Expired"
)

// expiryWarningDays is the window in which a policy counts as expiring soon.
const expiryWarningDays = 30

// DeriveStatus computes a policy's compliance status from its end date.
// Returns the label and the number of days until expiry (negative once
// expired). Nothing is persisted; the status is recomputed on every read.
func DeriveStatus(endDate, now time.Time) (string, int) {
	end := endDate.Truncate(24 * time.Hour)
	today := now.Truncate(24 * time.Hour)
	days := int(end.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return StatusExpired, days
	case days <= expiryWarningDays:
		return StatusExpiringSoon, days
	default:
		return StatusActive, days
	}
}
