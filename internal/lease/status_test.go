package lease

import (
	"testing"
	"time"

	"propertyhub-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func leaseWith(status models.LeaseStatus, start time.Time) models.Lease {
	return models.Lease{Status: status, StartDate: start, EndDate: start.AddDate(1, 0, 0)}
}

func TestTenantLeaseStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		leases []models.Lease
		want   string
	}{
		{"no leases", nil, "None"},
		{"active wins", []models.Lease{
			leaseWith(models.LeaseExpired, now.AddDate(-2, 0, 0)),
			leaseWith(models.LeaseActive, now.AddDate(0, -1, 0)),
		}, "Active"},
		{"active wins regardless of order", []models.Lease{
			leaseWith(models.LeaseActive, now.AddDate(0, -1, 0)),
			leaseWith(models.LeaseDraft, now),
		}, "Active"},
		{"latest draft", []models.Lease{
			leaseWith(models.LeaseExpired, now.AddDate(-2, 0, 0)),
			leaseWith(models.LeaseDraft, now),
		}, "DRAFT"},
		{"draft superseded by newer expired", []models.Lease{
			leaseWith(models.LeaseDraft, now.AddDate(-2, 0, 0)),
			leaseWith(models.LeaseExpired, now.AddDate(-1, 0, 0)),
		}, "Expired"},
		{"only expired", []models.Lease{
			leaseWith(models.LeaseExpired, now.AddDate(-2, 0, 0)),
		}, "Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TenantLeaseStatus(tt.leases))
		})
	}
}
