package models

import "time"

type InsurancePolicy struct {
	ID uint `gorm:"primaryKey"`

	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	Provider       string  `gorm:"size:100;not null"`
	PolicyNumber   string  `gorm:"size:100;not null"`
	CoverageAmount float64 `gorm:"default:0"`

	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"index;not null"`

	// Certificate upload, referenced by URL only. No derived status is stored;
	// Active/Expiring Soon/Expired is computed from EndDate at read time.
	DocumentURL string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
