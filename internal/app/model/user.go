package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // operator account role

const (
	RoleOperator UserRole = "operator" // front-desk registration operator
	RoleAdmin    UserRole = "admin"    // full administrative access
)

// User is an operator account for the registration offices. Vehicles,
// documents and print events are created through authenticated operators;
// chassis lookups stay public.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Office       string         `gorm:"type:varchar(120)" json:"office"` // registration office / print location
	Role         UserRole       `gorm:"type:varchar(20);default:'operator'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
