package models

import "time"

type TenantType string

const (
	TenantIndividual TenantType = "Individual"
	TenantCompany    TenantType = "Company"
)

type Tenant struct {
	ID    uint       `gorm:"primaryKey"`
	Name  string     `gorm:"size:100;not null"`
	Type  TenantType `gorm:"size:20;default:Individual"`
	Email string     `gorm:"size:100"`
	Phone string     `gorm:"size:50"`

	EmergencyContactName  string `gorm:"size:100"`
	EmergencyContactPhone string `gorm:"size:50"`

	Leases []Lease `gorm:"foreignKey:TenantID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
