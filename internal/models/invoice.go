package models

import "time"

type InvoiceStatus string

const (
	InvoicePaid    InvoiceStatus = "Paid"
	InvoicePending InvoiceStatus = "Pending"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

type Invoice struct {
	ID            uint   `gorm:"primaryKey"`
	InvoiceNumber string `gorm:"size:60;uniqueIndex;not null"`

	TenantID uint `gorm:"index;not null"`
	Tenant   Tenant

	LeaseID *uint `gorm:"index"`
	Lease   *Lease

	Amount  float64   `gorm:"not null"`
	DueDate time.Time `gorm:"index;not null"`

	// Stored status; the effective status and daysOverdue are derived from
	// DueDate at read time so an unpaid invoice flips to Overdue without a writer.
	Status InvoiceStatus `gorm:"size:20;default:Pending"`

	PaidAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
