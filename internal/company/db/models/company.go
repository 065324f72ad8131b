// Package models contains the persisted entities of the application,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a company row. Employees are removed together with
// their company.
type Company struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey"`
	Name      string     `gorm:"size:100;not null"`
	Address   string     `gorm:"size:60;not null"`
	Country   string     `gorm:"size:3;not null"`
	Employees []Employee `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee represents an employee row. CompanyID always references an
// existing company.
type Employee struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"size:30;not null"`
	Age       int       `gorm:"not null;check:age >= 18"`
	Position  string    `gorm:"size:20;not null"`
	CompanyID uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
