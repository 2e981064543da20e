package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleOwner  UserRole = "owner"
	RoleTenant UserRole = "tenant"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`

	// Portal logins are linked to the domain record they act for.
	OwnerID  *uint
	TenantID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}
