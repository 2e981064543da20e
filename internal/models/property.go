package models

import "time"

type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "Active"
	PropertyInactive PropertyStatus = "Inactive"
)

type Property struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null"`
	Address    string `gorm:"size:255"`
	City       string `gorm:"size:100"`
	Province   string `gorm:"size:100"`
	PostalCode string `gorm:"size:20"`

	// Declared total; may diverge from the actual Unit row count.
	UnitsCount int            `gorm:"default:0"`
	Status     PropertyStatus `gorm:"size:20;default:Active"`

	// Nullable: a property stays unassigned until an owner claims it.
	OwnerID *uint `gorm:"index"`
	Owner   *Owner

	Units []Unit

	CreatedAt time.Time
	UpdatedAt time.Time
}
