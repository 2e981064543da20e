package insurance_test

import (
	"testing"
	"time"

	"propertyhub-backend/internal/insurance"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endDate  time.Time
		want     string
		wantDays int
	}{
		{"expired yesterday", now.AddDate(0, 0, -1), insurance.StatusExpired, -1},
		{"long expired", now.AddDate(0, 0, -180), insurance.StatusExpired, -180},
		{"expires today", now, insurance.StatusExpiringSoon, 0},
		{"expires in 10 days", now.AddDate(0, 0, 10), insurance.StatusExpiringSoon, 10},
		{"expires at window edge", now.AddDate(0, 0, 30), insurance.StatusExpiringSoon, 30},
		{"just past the window", now.AddDate(0, 0, 31), insurance.StatusActive, 31},
		{"expires in 90 days", now.AddDate(0, 0, 90), insurance.StatusActive, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, days := insurance.DeriveStatus(tt.endDate, now)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.wantDays, days)
		})
	}
}

func TestDeriveStatusIgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2026, 6, 15, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, 6, 16, 0, 1, 0, 0, time.UTC)

	status, days := insurance.DeriveStatus(end, now)
	assert.Equal(t, insurance.StatusExpiringSoon, status)
	assert.Equal(t, 1, days)
}
