package models

import "time"

type TicketStatus string

const (
	TicketOpen       TicketStatus = "Open"
	TicketInProgress TicketStatus = "InProgress"
	TicketResolved   TicketStatus = "Resolved"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "Low"
	PriorityMedium TicketPriority = "Medium"
	PriorityHigh   TicketPriority = "High"
)

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	UnitID *uint `gorm:"index"`
	Unit   *Unit

	Subject     string         `gorm:"size:150;not null"`
	Description string         `gorm:"size:2000"`
	Priority    TicketPriority `gorm:"size:20;default:Medium"`
	Status      TicketStatus   `gorm:"size:20;default:Open"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
