package models

import "time"

type LeaseStatus string

const (
	LeaseActive  LeaseStatus = "Active"
	LeaseDraft   LeaseStatus = "DRAFT"
	LeaseExpired LeaseStatus = "Expired"
)

type Lease struct {
	ID uint `gorm:"primaryKey"`

	UnitID uint `gorm:"index;not null"`
	Unit   Unit

	// Set only for bedroom-wise leases.
	BedroomID *uint `gorm:"index"`
	Bedroom   *Bedroom

	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	StartDate       time.Time `gorm:"not null"`
	EndDate         time.Time `gorm:"not null"`
	MonthlyRent     float64   `gorm:"not null"`
	SecurityDeposit float64   `gorm:"default:0"`

	Status LeaseStatus `gorm:"size:20;index;default:DRAFT"`

	// Signed lease document, stored externally and referenced by URL only.
	DocumentURL string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
