package models

import "time"

type RentalMode string

const (
	RentalModeFullUnit    RentalMode = "FULL_UNIT"
	RentalModeBedroomWise RentalMode = "BEDROOM_WISE"
)

type OccupancyStatus string

const (
	StatusVacant   OccupancyStatus = "Vacant"
	StatusOccupied OccupancyStatus = "Occupied"
)

type Unit struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100"`
	UnitNumber string `gorm:"size:50;not null"`
	UnitType   string `gorm:"size:50"`
	Floor      *int

	PropertyID uint `gorm:"index;not null"`
	Property   Property

	RentalMode RentalMode `gorm:"size:20;not null;default:FULL_UNIT"`

	// Declared bedroom count. In BEDROOM_WISE mode the Bedroom rows are
	// reconciled against this number on every update.
	Bedrooms int `gorm:"default:1"`

	Status     OccupancyStatus `gorm:"size:20;default:Vacant"`
	RentAmount float64         `gorm:"default:0"`

	BedroomsList []Bedroom `gorm:"foreignKey:UnitID"`
	Leases       []Lease   `gorm:"foreignKey:UnitID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Bedroom struct {
	ID uint `gorm:"primaryKey"`

	// Display label, "{unitNumber}-{roomNumber}".
	BedroomNumber string `gorm:"size:60;not null"`
	RoomNumber    int    `gorm:"not null"`

	UnitID uint `gorm:"index;not null"`

	Status     OccupancyStatus `gorm:"size:20;default:Vacant"`
	RentAmount float64         `gorm:"default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
