package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names seeded at migration time.
const (
	RoleManager       = "Manager"
	RoleAdministrator = "Administrator"
)

// Role is a named capability group assigned to users.
type Role struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name           string    `gorm:"size:64;uniqueIndex;not null"`
	NormalizedName string    `gorm:"size:64;uniqueIndex;not null"`
}

// User is an API account. Roles are a many-to-many membership through user_roles.
type User struct {
	ID                     uuid.UUID `gorm:"type:char(36);primaryKey"`
	FirstName              string    `gorm:"size:100"`
	LastName               string    `gorm:"size:100"`
	UserName               string    `gorm:"size:256;uniqueIndex;not null"`
	Email                  string    `gorm:"size:256;uniqueIndex;not null"`
	PhoneNumber            string    `gorm:"size:32"`
	PasswordHash           string    `gorm:"not null"`
	RefreshToken           string    `gorm:"size:128"`
	RefreshTokenExpiryTime time.Time
	Roles                  []Role `gorm:"many2many:user_roles"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// RoleNames returns the names of the user's roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
